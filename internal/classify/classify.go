package classify

import (
	"path/filepath"
	"strings"
)

// Kind buckets a file as deletable bulk data or retained documentation.
type Kind int

const (
	// KindDocument is retained. Unrecognized extensions land here so that
	// unknown content is never deleted.
	KindDocument Kind = iota
	// KindData is eligible for deletion once the folder is archived.
	KindData
)

// File describes one classified file inside a case folder.
type File struct {
	ID   string
	Name string
	Size int64
	Path string // relative to the case folder root
}

var dataExtensions = map[string]struct{}{
	".csv": {}, ".dta": {}, ".zip": {}, ".gz": {}, ".tar": {}, ".7z": {}, ".rar": {},
	".sas7bdat": {}, ".sas7bcat": {}, ".sd2": {}, ".xpt": {}, // SAS
	".rds": {}, ".rdata": {}, ".rda": {}, // R
	".mat": {},             // MATLAB
	".pkl": {}, ".pickle": {}, // Python
	".parquet": {}, ".feather": {}, // columnar formats
	".db": {}, ".sqlite": {}, ".sql": {}, // databases
	".json": {}, ".jsonl": {}, ".ndjson": {}, // JSON data
	".xml":  {},            // XML data
	".hdf5": {}, ".h5": {}, // HDF5
	".nc": {}, ".nc4": {}, // NetCDF
	".sav": {}, ".por": {}, // SPSS
	".xlsx": {}, ".xls": {}, // Excel, usually data
}

var documentExtensions = map[string]struct{}{
	".pdf": {}, ".docx": {}, ".doc": {}, ".txt": {}, ".md": {}, ".rtf": {},
	".tex": {}, ".bib": {}, ".log": {}, ".aux": {}, // LaTeX
	".odt": {}, ".ods": {}, // OpenDocument
	".pptx": {}, ".ppt": {}, // PowerPoint
}

// ByName classifies a file name by its lowercased extension.
func ByName(name string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := dataExtensions[ext]; ok {
		return KindData
	}
	return KindDocument
}

// IsKnown reports whether the extension appears in either rule set. Unknown
// files are still retained, but callers may want to log them differently.
func IsKnown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := dataExtensions[ext]; ok {
		return true
	}
	_, ok := documentExtensions[ext]
	return ok
}
