package page

import "fmt"

// WarningKind classifies a recoverable problem found while transforming a page.
type WarningKind string

const (
	WarningAssetNotFound        WarningKind = "AssetNotFound"
	WarningUnsupportedAssetType WarningKind = "UnsupportedAssetType"
	WarningSubstitutionApply    WarningKind = "SubstitutionApplyFailure"
	WarningConversion           WarningKind = "ConversionFailure"
)

// Warning records a problem scoped to one node of one page. Node is the exact
// markup the problem was found in; Detail names the file or cause.
type Warning struct {
	PageID int64       `json:"page_id"`
	Node   string      `json:"node"`
	Kind   WarningKind `json:"kind"`
	Detail string      `json:"detail"`
}

func (w Warning) String() string {
	return fmt.Sprintf("page %d: %s at %q: %s", w.PageID, w.Kind, w.Node, w.Detail)
}

// WithPage returns a copy of warnings attributed to pageID.
func WithPage(pageID int64, warnings []Warning) []Warning {
	out := make([]Warning, len(warnings))
	for i, w := range warnings {
		w.PageID = pageID
		out[i] = w
	}
	return out
}
