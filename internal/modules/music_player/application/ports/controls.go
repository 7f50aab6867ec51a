package ports

// Custom IDs of the control panel buttons.
const (
	ControlPause      = "music_pause"
	ControlResume     = "music_resume"
	ControlSkip       = "music_skip"
	ControlStop       = "music_stop"
	ControlClear      = "music_clear"
	ControlLoop       = "music_loop"
	ControlVolumeUp   = "music_volume_up"
	ControlVolumeDown = "music_volume_down"
	ControlQueue      = "music_queue"
	ControlShuffle    = "music_shuffle"
)
