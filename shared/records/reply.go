package records

// Source is a record as the generation service returned it. Lookup reports
// whether the field is present at all.
type Source interface {
	Lookup(field string) (any, bool)
}

// SourceMap is a Source backed by a decoded JSON object.
type SourceMap map[string]any

func (m SourceMap) Lookup(field string) (any, bool) {
	v, ok := m[field]
	return v, ok
}

// FinalOutput is the structured payload of a reply that honored the
// records/count contract.
type FinalOutput struct {
	Records []Source
	Count   int
}

// Reply is what one generation round returned. At most one of Final and
// Text is set; a reply with neither carries nothing usable.
type Reply struct {
	Final *FinalOutput
	Text  *string
}

// StructuredReply wraps a structured payload.
func StructuredReply(out FinalOutput) Reply {
	return Reply{Final: &out}
}

// TextReply wraps raw reply text.
func TextReply(text string) Reply {
	return Reply{Text: &text}
}

// Kind names the reply's shape for logging.
func (r Reply) Kind() string {
	switch {
	case r.Final != nil:
		return "structured"
	case r.Text != nil:
		return "text"
	default:
		return "empty"
	}
}
