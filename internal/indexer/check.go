package indexer

// Warning is an Issue tied to the document it came from.
type Warning struct {
	Kind   Kind   `json:"kind" yaml:"kind"`
	Slug   string `json:"slug" yaml:"slug"`
	Path   string `json:"path" yaml:"path"`
	Field  string `json:"field" yaml:"field"`
	Value  string `json:"value" yaml:"value"`
	Reason string `json:"reason" yaml:"reason"`
}

// Check parses every document of kind in dir and reports field values that
// were dropped. Like the loaders it fails on the first unreadable file.
func (ix *Indexer) Check(kind Kind, dir string) ([]Warning, error) {
	docs, err := readAll(ix.src, dir, ix.ext)
	if err != nil {
		return nil, err
	}
	var warnings []Warning
	for _, raw := range docs {
		for _, is := range ix.issues(kind, raw) {
			warnings = append(warnings, Warning{
				Kind:   kind,
				Slug:   raw.Slug(),
				Path:   raw.Path,
				Field:  is.Field,
				Value:  is.Value,
				Reason: is.Reason,
			})
		}
	}
	return warnings, nil
}

// CheckFile reports dropped field values for a single document.
func (ix *Indexer) CheckFile(kind Kind, path string) ([]Warning, error) {
	raw, err := ix.src.Read(path)
	if err != nil {
		return nil, err
	}
	var warnings []Warning
	for _, is := range ix.issues(kind, raw) {
		warnings = append(warnings, Warning{
			Kind: kind, Slug: raw.Slug(), Path: raw.Path,
			Field: is.Field, Value: is.Value, Reason: is.Reason,
		})
	}
	return warnings, nil
}

func (ix *Indexer) issues(kind Kind, raw RawDocument) []Issue {
	doc := ParseDocument(raw.Text, kind, ix.block)
	if kind == KindRoadmap {
		_, issues := CoerceRoadmap(doc.Fields)
		return issues
	}
	_, issues := CoercePost(doc.Fields)
	return issues
}
