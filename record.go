package curate

// Verdict is the terminal outcome of one document's evaluation.
type Verdict struct {
	Decision bool
	Remarks  string
}

// Record pairs a document with its verdict. Index is 1-based and matches
// source order. Created once per document; immutable thereafter.
type Record struct {
	Index    int
	Document string
	Decision bool
	Remarks  string
}
