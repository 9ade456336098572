package wordcount

import (
	"github.com/joshuapare/wordfreq/wordcount/alloc"
	"github.com/joshuapare/wordfreq/wordcount/table"
)

// Library version.
const (
	Version       = "1.0.0"
	VersionNumber = 1_000_000 // major*1e6 + minor*1e3 + patch
)

// BuildInfo describes the limits compiled into this package, so callers can
// check their assumptions at run time.
type BuildInfo struct {
	Version           string         `json:"version"`
	VersionNumber     int            `json:"version_number"`
	MaxWord           int            `json:"max_word"`
	MinInitCap        int            `json:"min_init_cap"`
	MinBlockSize      int            `json:"min_block_size"`
	DefaultInitCap    int            `json:"default_init_cap"`
	DefaultBlockSize  int            `json:"default_block_size"`
	DefaultScanBuffer ScanBufferMode `json:"-"`
	ScanBufferName    string         `json:"default_scan_buffer"`
	Align             int            `json:"align"`
	SlotSize          int            `json:"slot_size"`
}

// Build returns the compiled-in limits.
func Build() BuildInfo {
	return BuildInfo{
		Version:           Version,
		VersionNumber:     VersionNumber,
		MaxWord:           MaxWordLimit,
		MinInitCap:        MinInitCap,
		MinBlockSize:      MinBlockSize,
		DefaultInitCap:    DefaultInitCap,
		DefaultBlockSize:  DefaultBlockSize,
		DefaultScanBuffer: DefaultScanBuffer,
		ScanBufferName:    DefaultScanBuffer.String(),
		Align:             alloc.Align,
		SlotSize:          table.SlotSize,
	}
}
