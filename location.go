package icekit

import (
	"fmt"
	"strings"
)

// Driver names used by the registry and the Router.
const (
	DriverLocal  = "local"
	DriverMemory = "memory"
	DriverS3     = "s3"
	DriverGCS    = "gcs"
	DriverAzure  = "azure"
)

// schemeDrivers maps location schemes to the driver that serves them.
// s3a and s3n are Hadoop aliases for the same buckets as s3.
var schemeDrivers = map[string]string{
	"file":   DriverLocal,
	"memory": DriverMemory,
	"s3":     DriverS3,
	"s3a":    DriverS3,
	"s3n":    DriverS3,
	"gs":     DriverGCS,
	"abfs":   DriverAzure,
	"abfss":  DriverAzure,
	"wasb":   DriverAzure,
	"wasbs":  DriverAzure,
}

// Location is a parsed storage location.
type Location struct {
	// Scheme as written in the location, e.g. "s3a".
	Scheme string
	// Bucket (or container) name; empty for local paths.
	Bucket string
	// Host holds the account host of Azure locations
	// ("account.dfs.core.windows.net"); empty otherwise.
	Host string
	// Key is the bucket-relative object key, or the filesystem path for
	// local locations.
	Key string
}

// ParseLocation splits a location string into scheme, bucket and key.
//
// Supported forms:
//
//	s3://bucket/key        (also s3a://, s3n://, gs://, memory://)
//	abfss://container@account.dfs.core.windows.net/key
//	file:///abs/path, file:/abs/path, /abs/path, rel/path
func ParseLocation(location string) (Location, error) {
	if location == "" {
		return Location{}, fmt.Errorf("%w: empty location", ErrInvalidLocation)
	}

	scheme, rest, ok := strings.Cut(location, "://")
	if !ok {
		if after, found := strings.CutPrefix(location, "file:"); found {
			return Location{Scheme: "file", Key: after}, nil
		}
		return Location{Scheme: "file", Key: location}, nil
	}

	scheme = strings.ToLower(scheme)
	if scheme == "file" {
		if rest == "" {
			return Location{}, fmt.Errorf("%w: %s", ErrInvalidLocation, location)
		}
		return Location{Scheme: scheme, Key: rest}, nil
	}

	authority, key, _ := strings.Cut(rest, "/")
	if authority == "" {
		return Location{}, fmt.Errorf("%w: missing bucket in %s", ErrInvalidLocation, location)
	}

	loc := Location{Scheme: scheme, Bucket: authority, Key: key}
	if schemeDrivers[scheme] == DriverAzure {
		container, host, found := strings.Cut(authority, "@")
		if !found || container == "" {
			return Location{}, fmt.Errorf("%w: expected container@account in %s", ErrInvalidLocation, location)
		}
		loc.Bucket = container
		loc.Host = host
	}

	return loc, nil
}

// Driver returns the name of the driver serving this location, or "" when
// the scheme is unknown.
func (l Location) Driver() string {
	return schemeDrivers[l.Scheme]
}

// mountKey identifies the per-bucket driver instance for a location.
func (l Location) mountKey() string {
	if l.Host != "" {
		return l.Driver() + "://" + l.Bucket + "@" + l.Host
	}
	return l.Driver() + "://" + l.Bucket
}

// SameBucket reports whether two locations address the same bucket of the
// same backend. Scheme aliases such as s3 and s3a compare equal.
func SameBucket(a, b Location) bool {
	return a.Driver() == b.Driver() && a.Bucket == b.Bucket && a.Host == b.Host
}

// String renders the location back to URL form. Scheme aliases are kept
// as parsed.
func (l Location) String() string {
	if l.Scheme == "file" {
		return "file://" + l.Key
	}
	authority := l.Bucket
	if l.Host != "" {
		authority += "@" + l.Host
	}
	return l.Scheme + "://" + authority + "/" + l.Key
}
