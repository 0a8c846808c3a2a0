package record

import "github.com/nwmaint/collectord/internal/enums"

// Version is a device's reported firmware/software version.
type Version struct {
	VersionString string
}

func NewVersion(v string) (Version, error) {
	if v == "" {
		return Version{}, &enums.ValidationError{Field: "version", Msg: "required"}
	}
	return Version{VersionString: v}, nil
}

func (Version) APIName() string { return "get_version" }

func (v Version) FingerprintFields() []FieldValue {
	return []FieldValue{present("version", v.VersionString)}
}
