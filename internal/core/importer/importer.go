package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/infrastructure/metrics"
	"mixology-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// Repository 匯入所需的儲存操作
type Repository interface {
	ReplaceCatalog(ctx context.Context, snap cocktail.Snapshot, version string) error
	Counts(ctx context.Context) (cocktail.CatalogStats, error)
	GetMetadata(ctx context.Context, key string) (string, bool, error)
	SetMetadata(ctx context.Context, key, value string) error
}

// VersionSink 匯入完成後通知快取用的資料版本，見 CacheVersion
type VersionSink interface {
	SetDataVersion(v string)
}

// Result 匯入結果
type Result struct {
	BatchID  string                `json:"batch_id,omitempty"`
	Imported bool                  `json:"imported"`
	Message  string                `json:"message"`
	Version  string                `json:"version"`
	Stats    cocktail.CatalogStats `json:"stats"`
	Warnings int                   `json:"warnings"`
	Duration time.Duration         `json:"duration"`
}

// Importer 目錄匯入器
type Importer struct {
	repo    Repository
	source  Source
	version string
	sink    VersionSink
	metrics *metrics.Collector

	mu sync.Mutex
}

// New 創建匯入器，sink 與 collector 可為 nil
func New(repo Repository, source Source, version string, sink VersionSink, collector *metrics.Collector) *Importer {
	return &Importer{
		repo:    repo,
		source:  source,
		version: version,
		sink:    sink,
		metrics: collector,
	}
}

// EnsureCatalog 資料庫為空、版本不同或 force 時重新匯入
func (im *Importer) EnsureCatalog(ctx context.Context, force bool) (*Result, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	stored, hasVersion, err := im.repo.GetMetadata(ctx, cocktail.MetaDataVersion)
	if err != nil {
		return nil, err
	}
	stats, err := im.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	outdated := !hasVersion || stored != im.version
	populated := stats.Cocktails > 0
	if !force && !outdated && populated {
		batchID, err := im.lastBatch(ctx)
		if err != nil {
			return nil, err
		}
		im.publish(CacheVersion(stored, batchID), stats)
		return &Result{
			Message: "catalog already populated",
			Version: stored,
			Stats:   stats,
		}, nil
	}

	if outdated && hasVersion {
		common.LogInfo("目錄資料版本更新",
			zap.String("from", stored),
			zap.String("to", im.version),
		)
	}
	return im.run(ctx)
}

func (im *Importer) run(ctx context.Context) (*Result, error) {
	batchID := common.GenerateUUID()
	start := time.Now()

	result, err := im.importOnce(ctx, batchID)
	duration := time.Since(start)
	im.metrics.RecordImport(err, duration)
	if err != nil {
		common.LogImport(batchID, duration, err, zap.String("source", im.source.Describe()))
		return nil, common.Wrap(common.ErrImportFailed, err)
	}

	result.Duration = duration
	common.LogImport(batchID, duration, nil,
		zap.String("source", im.source.Describe()),
		zap.Int("cocktails", result.Stats.Cocktails),
		zap.Int("ingredients", result.Stats.Ingredients),
		zap.Int("categories", result.Stats.Categories),
		zap.Int("warnings", result.Warnings),
	)
	return result, nil
}

func (im *Importer) importOnce(ctx context.Context, batchID string) (*Result, error) {
	ds, err := im.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	snap, warnings := BuildSnapshot(ds)
	for _, w := range warnings {
		common.LogWarn("目錄資料不一致", zap.String("batch_id", batchID), zap.String("detail", w))
	}
	if len(snap.Recipes) == 0 {
		return nil, fmt.Errorf("source contains no cocktails")
	}

	if err := im.repo.ReplaceCatalog(ctx, snap, im.version); err != nil {
		return nil, err
	}
	if err := im.repo.SetMetadata(ctx, cocktail.MetaLastImport, batchID); err != nil {
		common.LogWarn("寫入匯入批次失敗", zap.Error(err))
	}

	stats, err := im.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	im.publish(CacheVersion(im.version, batchID), stats)

	return &Result{
		BatchID:  batchID,
		Imported: true,
		Message: fmt.Sprintf("imported %d cocktails with %d ingredients in %d categories",
			stats.Cocktails, stats.Ingredients, stats.Categories),
		Version:  im.version,
		Stats:    stats,
		Warnings: len(warnings),
	}, nil
}

// RestoreVersion 不匯入，只依資料庫記錄通知目前版本
func (im *Importer) RestoreVersion(ctx context.Context) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	stored, ok, err := im.repo.GetMetadata(ctx, cocktail.MetaDataVersion)
	if err != nil || !ok {
		return err
	}
	batchID, err := im.lastBatch(ctx)
	if err != nil {
		return err
	}
	stats, err := im.repo.Counts(ctx)
	if err != nil {
		return err
	}
	im.publish(CacheVersion(stored, batchID), stats)
	return nil
}

// CacheVersion 資料版本加上匯入批次，同版本強制重新匯入也會換新
func CacheVersion(version, batchID string) string {
	if batchID == "" {
		return version
	}
	return version + ":" + batchID
}

func (im *Importer) lastBatch(ctx context.Context) (string, error) {
	batchID, _, err := im.repo.GetMetadata(ctx, cocktail.MetaLastImport)
	return batchID, err
}

func (im *Importer) publish(version string, stats cocktail.CatalogStats) {
	im.metrics.SetCatalogSize(stats.Categories, stats.Cocktails, stats.Ingredients)
	if im.sink != nil {
		im.sink.SetDataVersion(version)
	}
}
