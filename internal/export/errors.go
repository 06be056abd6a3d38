// Package export encodes rendered pages into the published artifacts and
// packages them for download.
package export

import "fmt"

// Artifact names one output of an assembly.
type Artifact string

const (
	ArtifactStandardPDF Artifact = "standard_pdf"
	ArtifactBleedPDF    Artifact = "bleed_pdf"
	ArtifactEPUB        Artifact = "epub"
)

// Artifacts lists every artifact in packaging order.
var Artifacts = []Artifact{ArtifactStandardPDF, ArtifactBleedPDF, ArtifactEPUB}

// EncodingError reports that one artifact could not be produced.
type EncodingError struct {
	Artifact Artifact
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode %s: %v", e.Artifact, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
