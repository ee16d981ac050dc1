package convert

// Outcome records the result of converting exactly one source. Exactly one of
// Document or Err is populated; Source is always the originating identifier.
type Outcome struct {
	Source   string
	Document *Document
	Err      error
}

// Succeeded reports whether the conversion produced a document.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Document != nil
}

// ErrorMessage returns the failure description, or "" for successes.
func (o Outcome) ErrorMessage() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// SuccessOutcome builds a success record for a source.
func SuccessOutcome(source string, doc *Document) Outcome {
	return Outcome{Source: source, Document: doc}
}

// FailureOutcome builds a failure record for a source.
func FailureOutcome(source string, err error) Outcome {
	return Outcome{Source: source, Err: err}
}
