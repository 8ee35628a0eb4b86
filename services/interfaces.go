package services

import (
	"context"
	"iter"

	"github.com/iEmiya/ruaddress/internal/source"
	"github.com/iEmiya/ruaddress/model"
)

// AddressService answers queries over the address hierarchy.
// Sequence-returning methods are lazy and single-pass.
type AddressService interface {
	Search(text string) iter.Seq[model.SearchResult]
	GetByCode(code string) (model.ParsedAddress, bool)
	GetByIndex(postalCode string) iter.Seq[model.ParsedAddress]
	GetByIndexForSearch(postalCode string) iter.Seq[model.SearchResult]
	GetByLevel(code string) iter.Seq[model.AddressPart]
	GetChildren(code string) iter.Seq[model.AddressPart]
	GetReduction(level int, short string) (model.ReductionEntry, bool)
	GetLevel(code string) (int, bool)
	BuildID() string
}

// Rebuilder replaces the address store.
type Rebuilder interface {
	Rebuild(ctx context.Context, records []model.AddressRecord, reductions []model.ReductionEntry) (model.BuildStats, error)
	RebuildFromSource(ctx context.Context, src source.Source) (model.BuildStats, error)
	RebuildAsync(src source.Source) (string, error) // Returns job ID
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}
