package models

// Record is one searchable unit of the corpus. There is no surrogate key;
// identity is the (Source, Origin, Key) triple and the whole set is replaced
// wholesale on every rebuild.
//
// Source is the coarse origin tag (a content-source name, or "dorks.json" for
// dictionary entries). Origin is the file or resource the line came from,
// relative to the content root. Key is the 1-based line number for file lines
// or the dictionary key for JSON entries.
type Record struct {
	Source string `json:"source"`
	Origin string `json:"origin"`
	Key    string `json:"key"`
	Text   string `json:"text"`
}
