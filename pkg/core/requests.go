package core

// ExtractRequest describes an extract run.
type ExtractRequest struct {
	Manifest   string
	OutputFile string
	URLPrefix  string
}

// Validate reports the first missing required argument.
func (r ExtractRequest) Validate() error {
	if r.Manifest == "" {
		return &MissingArgumentError{Command: "extract", Flag: "input-manifest"}
	}
	if r.OutputFile == "" {
		return &MissingArgumentError{Command: "extract", Flag: "output-file"}
	}
	return nil
}

// ExtractResult summarises an extract run.
type ExtractResult struct {
	Version     Version
	OutputFile  string
	DocumentID  string
	Annotations int
	Unresolved  []string
}

// InsertRequest describes an insert run.
type InsertRequest struct {
	Manifest       string
	InputFile      string
	OutputManifest string
	// OutputDir defaults to the directory of OutputManifest.
	OutputDir     string
	ReferenceMode ReferenceMode
	NameScheme    NameScheme
	URLPrefix     string
}

// Validate reports the first missing required argument.
func (r InsertRequest) Validate() error {
	switch {
	case r.Manifest == "":
		return &MissingArgumentError{Command: "insert", Flag: "input-manifest"}
	case r.InputFile == "":
		return &MissingArgumentError{Command: "insert", Flag: "input-file"}
	case r.OutputManifest == "":
		return &MissingArgumentError{Command: "insert", Flag: "output-manifest"}
	}
	if _, err := ParseReferenceMode(string(r.ReferenceMode)); err != nil {
		return err
	}
	_, err := ParseNameScheme(string(r.NameScheme))
	return err
}

// InsertResult summarises an insert run.
type InsertResult struct {
	Version        Version
	ManifestID     string
	OutputManifest string
	Files          []string
	Inserted       int
	Skipped        int
	Canvases       int
}
