package models

// WarehouseID identifies a warehouse security cabin (e.g. "W202").
// It is embedded in check-in URLs as-is, so it must already be URL safe.
type WarehouseID string

// Variant is the kind of QR artifact produced for a warehouse
type Variant string

const (
	VariantSimple  Variant = "simple"
	VariantLabeled Variant = "labeled"
)

// ArtifactResult is the outcome of rendering one variant to disk
type ArtifactResult struct {
	Variant Variant `json:"variant"`
	Path    string  `json:"path"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Err     error   `json:"-"`
}

// OK reports whether the artifact was written
func (r ArtifactResult) OK() bool {
	return r.Err == nil && r.Path != ""
}

// ArtifactReport collects both variants generated for one warehouse
type ArtifactReport struct {
	WarehouseID WarehouseID    `json:"warehouse_id"`
	URL         string         `json:"url"`
	Labeled     ArtifactResult `json:"labeled"`
	Simple      ArtifactResult `json:"simple"`
}

// OK is true when both variants were written
func (r ArtifactReport) OK() bool {
	return r.Labeled.OK() && r.Simple.OK()
}

// Partial is true when exactly one variant was written
func (r ArtifactReport) Partial() bool {
	return r.Labeled.OK() != r.Simple.OK()
}

// Failed is true when neither variant was written
func (r ArtifactReport) Failed() bool {
	return !r.Labeled.OK() && !r.Simple.OK()
}
