package models

// VolumeAttachment links a volume to an instance
type VolumeAttachment struct {
	InstanceID string
	Device     string
	State      string
}

// VolumeLookup is the tagged outcome of describing a single volume.
// A volume that no longer exists is an expected condition, not an error,
// so it is carried as Exists=false rather than as a provider error code.
type VolumeLookup struct {
	VolumeID    string
	Exists      bool
	State       string
	Attachments []VolumeAttachment
}

// Attached reports whether the volume exists and has at least one attachment
func (v VolumeLookup) Attached() bool {
	return v.Exists && len(v.Attachments) > 0
}
