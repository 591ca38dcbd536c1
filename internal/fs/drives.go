package fs

// Drive is a mounted volume offered by the show_drives action.
type Drive struct {
	Label string
	Path  string
}
