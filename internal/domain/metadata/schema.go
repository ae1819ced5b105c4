// Package metadata defines the tag schema attached to ingested documents
// and the canonical normalization shared by ingestion and query-time
// filtering. Everything here is pure: no I/O, no mutable package state.
package metadata

// Recognized field names. Keys are lowercase and lookups are exact.
const (
	FieldBoard         = "board"
	FieldGrade         = "grade"
	FieldSubject       = "subject"
	FieldTerm          = "term"
	FieldChapter       = "chapter"
	FieldChapterNumber = "chapter_number"
	FieldPublisher     = "publisher"
	FieldEdition       = "edition"
	FieldLanguage      = "language"
	FieldContentType   = "content_type"
	FieldDifficulty    = "difficulty"
)

// requiredFields must be present on every imported document, in report order.
var requiredFields = []string{FieldBoard, FieldGrade, FieldSubject}

// optionalFields refine filtering, in report order.
var optionalFields = []string{
	FieldTerm, FieldChapter, FieldChapterNumber, FieldPublisher,
	FieldEdition, FieldLanguage, FieldContentType, FieldDifficulty,
}

var recognizedFields = map[string]bool{
	FieldBoard: true, FieldGrade: true, FieldSubject: true,
	FieldTerm: true, FieldChapter: true, FieldChapterNumber: true,
	FieldPublisher: true, FieldEdition: true, FieldLanguage: true,
	FieldContentType: true, FieldDifficulty: true,
}

// Enum values enforced only under strict validation.
var (
	AllowedContentTypes     = []string{"theory", "exercises", "solutions", "examples"}
	AllowedDifficultyLevels = []string{"basic", "medium", "advanced"}
)

// CommonBoards lists well-known education boards, for client guidance only.
var CommonBoards = []string{"CBSE", "ICSE", "State", "IGCSE", "IB", "State_Board"}

// IsRecognized reports whether name is a schema field.
func IsRecognized(name string) bool { return recognizedFields[name] }

// RequiredFields returns the required field names in report order.
func RequiredFields() []string { return append([]string(nil), requiredFields...) }

// OptionalFields returns the optional field names in report order.
func OptionalFields() []string { return append([]string(nil), optionalFields...) }

// SchemaInfo is a static, serializable description of the schema.
type SchemaInfo struct {
	RequiredFields          []string
	OptionalFields          []string
	FieldTypes              map[string]string
	AllowedContentTypes     []string
	AllowedDifficultyLevels []string
	CommonBoards            []string
	Examples                map[string]map[string]string
}

// Info returns the schema description served to clients.
func Info() SchemaInfo {
	fieldTypes := make(map[string]string, len(requiredFields)+len(optionalFields))
	for _, f := range requiredFields {
		fieldTypes[f] = "string"
	}
	for _, f := range optionalFields {
		fieldTypes[f] = "string"
	}
	return SchemaInfo{
		RequiredFields:          RequiredFields(),
		OptionalFields:          OptionalFields(),
		FieldTypes:              fieldTypes,
		AllowedContentTypes:     append([]string(nil), AllowedContentTypes...),
		AllowedDifficultyLevels: append([]string(nil), AllowedDifficultyLevels...),
		CommonBoards:            append([]string(nil), CommonBoards...),
		Examples: map[string]map[string]string{
			"minimum": {
				FieldBoard:   "CBSE",
				FieldGrade:   "10",
				FieldSubject: "Mathematics",
			},
			"complete": {
				FieldBoard:         "CBSE",
				FieldGrade:         "10",
				FieldSubject:       "Mathematics",
				FieldTerm:          "1",
				FieldChapter:       "Algebra",
				FieldChapterNumber: "3",
				FieldPublisher:     "NCERT",
				FieldEdition:       "2024",
				FieldLanguage:      "English",
				FieldContentType:   "theory",
				FieldDifficulty:    "medium",
			},
		},
	}
}
