package corpus

// File is an immutable value object describing one imported document.
type File struct {
	id          string
	displayName string
	sourceURI   string
	sizeBytes   int64
	importedAt  int64
}

// ReconstructFile creates a File without validation (provider hydration).
func ReconstructFile(id, displayName, sourceURI string, sizeBytes, importedAt int64) File {
	return File{
		id:          id,
		displayName: displayName,
		sourceURI:   sourceURI,
		sizeBytes:   sizeBytes,
		importedAt:  importedAt,
	}
}

// ID returns the provider-assigned file identifier.
func (f File) ID() string { return f.id }

// DisplayName returns the human-readable file name.
func (f File) DisplayName() string { return f.displayName }

// SourceURI returns the locator the file was imported from.
func (f File) SourceURI() string { return f.sourceURI }

// SizeBytes returns the file size, 0 when unknown.
func (f File) SizeBytes() int64 { return f.sizeBytes }

// ImportedAt returns the import timestamp (unix millis, 0 when unknown).
func (f File) ImportedAt() int64 { return f.importedAt }

// ImportSource is one document queued for import, carrying its
// already-validated metadata tags. Text holds inline content for
// providers that ingest locally instead of fetching the URI.
type ImportSource struct {
	URI      string
	Text     string
	Metadata map[string]string
}

// ImportOutcome reports how an import batch fared at the provider.
type ImportOutcome struct {
	Imported int
	Failed   int
}
