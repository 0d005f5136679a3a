package stream

// Message type tags.
const (
	MsgView    = "view"
	MsgPatches = "patches"
	MsgError   = "error"
)

// ViewRequest asks for a patch set built for one viewer position. A
// positive view distance reconfigures the refinement reach; zero keeps
// the server's current setting.
type ViewRequest struct {
	Type         string     `json:"type"`
	Viewer       [3]float32 `json:"viewer"`
	ViewDistance float32    `json:"view_distance,omitempty"`
}

// PatchMsg is one finished patch.
type PatchMsg struct {
	X            uint32 `json:"x"`
	Y            uint32 `json:"y"`
	Size         uint32 `json:"size"`
	Density      uint32 `json:"density"`
	Stitch       uint32 `json:"stitch"`
	Morph        uint32 `json:"morph"`
	SpecialMorph bool   `json:"special_morph,omitempty"`
}

// PatchSet answers a ViewRequest with every patch of the build, grouped
// counts first.
type PatchSet struct {
	Type    string     `json:"type"`
	Counts  [4]int     `json:"counts"`
	Patches []PatchMsg `json:"patches"`
}

// ErrorMsg reports a rejected or failed request.
type ErrorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
