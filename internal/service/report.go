package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"zerowaste/internal/model"
	"zerowaste/internal/repository"
	"zerowaste/internal/storage"
)

// ReportURLExpiry is how long an exported report's download link stays valid.
const ReportURLExpiry = 15 * time.Minute

// ReceiverUtilization is one receiver's line in an impact report.
type ReceiverUtilization struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Capacity         int     `json:"capacity"`
	OriginalCapacity int     `json:"original_capacity"`
	UsedPercentage   float64 `json:"used_percentage"`
}

// ImpactReport is the document written to object storage.
type ImpactReport struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Stats       model.Stats           `json:"stats"`
	Receivers   []ReceiverUtilization `json:"receivers"`
}

// ExportedReport locates an uploaded impact report.
type ExportedReport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReportService exports impact reports.
type ReportService interface {
	ExportImpactReport(ctx context.Context) (*ExportedReport, error)
}

type reportService struct {
	store   repository.Store
	objects storage.Storage
	log     *zap.Logger
	now     func() time.Time
}

// NewReportService constructs a ReportService. A nil objects store disables exports.
func NewReportService(store repository.Store, objects storage.Storage, log *zap.Logger) ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &reportService{store: store, objects: objects, log: log, now: time.Now}
}

func (s *reportService) ExportImpactReport(ctx context.Context) (*ExportedReport, error) {
	ctx, span := tracer.Start(ctx, "ReportService.ExportImpactReport")
	defer span.End()

	if s.objects == nil {
		return nil, fail(span, ErrReportsDisabled)
	}

	stats, err := s.store.Donations().CountByStatus(ctx)
	if err != nil {
		return nil, fail(span, fmt.Errorf("count donations: %w", err))
	}
	receivers, err := s.store.Organizations().ListReceivers(ctx)
	if err != nil {
		return nil, fail(span, fmt.Errorf("list receivers: %w", err))
	}

	now := s.now().UTC()
	report := ImpactReport{
		GeneratedAt: now,
		Stats:       stats,
		Receivers:   make([]ReceiverUtilization, 0, len(receivers)),
	}
	for _, r := range receivers {
		report.Receivers = append(report.Receivers, ReceiverUtilization{
			ID:               r.ID,
			Name:             r.Name,
			Capacity:         r.Capacity,
			OriginalCapacity: r.OriginalCapacity,
			UsedPercentage:   usedPercentage(r.Capacity, r.OriginalCapacity),
		})
	}

	body, err := json.Marshal(report)
	if err != nil {
		return nil, fail(span, fmt.Errorf("encode report: %w", err))
	}

	key := fmt.Sprintf("reports/impact-%s.json", now.Format("20060102T150405Z"))
	if _, err := s.objects.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
	}); err != nil {
		return nil, fail(span, fmt.Errorf("upload report: %w", err))
	}

	url, err := s.objects.PresignGet(ctx, key, ReportURLExpiry)
	if err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			s.log.Warn("report_cleanup_failed", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fail(span, fmt.Errorf("presign report: %w", err))
	}

	s.log.Info("impact_report_exported", zap.String("key", key), zap.Int("receivers", len(report.Receivers)))
	return &ExportedReport{Key: key, URL: url, ExpiresAt: now.Add(ReportURLExpiry)}, nil
}
