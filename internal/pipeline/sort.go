package pipeline

import (
	"math"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
)

// SortStage orders rows by several keys. For each key two numeric values
// compare numerically, two instants chronologically, and anything else by
// locale collation of the text form (null is empty text). Ties fall through
// to the next key and rows equal on every key keep their input order. Keys
// with an unknown direction are ignored.
type SortStage struct {
	Keys     []query.SortKey
	Language language.Tag
}

// NewSortStage creates a sort stage collating text with lang.
func NewSortStage(keys []query.SortKey, lang language.Tag) *SortStage {
	return &SortStage{Keys: keys, Language: lang}
}

// Name implements Stage.
func (s *SortStage) Name() string { return StageSort }

// Apply implements Stage.
func (s *SortStage) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	keys := make([]query.SortKey, 0, len(s.Keys))
	for _, k := range s.Keys {
		if k.Direction == query.Ascending || k.Direction == query.Descending {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ds, nil
	}

	// Collators are not safe for concurrent use; one per Apply.
	collator := collate.New(s.Language)
	rows := ds.Rows()
	slices.SortStableFunc(rows, func(a, b dataset.Row) int {
		for _, k := range keys {
			c := compareValues(collator, a.Get(k.Column), b.Get(k.Column))
			if k.Direction == query.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return ds.WithRows(rows), nil
}

func compareValues(collator *collate.Collator, a, b dataset.Value) int {
	if a.Kind() == dataset.KindTime && b.Kind() == dataset.KindTime {
		ta, _ := a.Date()
		tb, _ := b.Date()
		return ta.Compare(tb)
	}
	fa, fb := a.Float(), b.Float()
	if !math.IsNaN(fa) && !math.IsNaN(fb) {
		return compareFloat(fa, fb)
	}
	return collator.CompareString(a.String(), b.String())
}

// String implements Stage.
func (s *SortStage) String() string {
	keys := make([]string, len(s.Keys))
	for i, k := range s.Keys {
		keys[i] = common.FormatSort(k.Column, k.Direction != query.Descending)
	}
	return "sort: " + common.FormatList(keys)
}
