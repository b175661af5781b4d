package session

type testRun struct {
	Stage    int             `json:"stage"`
	Excluded map[string]bool `json:"excluded"`
}

var testCodec Codec[testRun] = JSONCodec[testRun]{}
