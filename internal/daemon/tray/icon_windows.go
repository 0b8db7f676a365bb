//go:build windows

package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"log"
)

// icoHeader is an ICONDIR with a single ICONDIRENTRY.
type icoHeader struct {
	Reserved   uint16
	Type       uint16
	Count      uint16
	Width      uint8
	Height     uint8
	Colors     uint8
	Reserved2  uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	Offset     uint32
}

// platformIcon wraps the PNG in an ICO container; the Windows tray only
// accepts ICO data.
func platformIcon(data []byte) []byte {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Printf("Failed to decode tray icon: %v", err)
		return data
	}

	hdr := icoHeader{
		Type:       1,
		Count:      1,
		Width:      icoDimension(cfg.Width),
		Height:     icoDimension(cfg.Height),
		Planes:     1,
		BitCount:   32,
		BytesInRes: uint32(len(data)),
		Offset:     6 + 16,
	}

	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, hdr); err != nil {
		log.Printf("Failed to wrap tray icon: %v", err)
		return data
	}
	buf.Write(data)
	return buf.Bytes()
}

// icoDimension encodes a size; 0 means 256 or larger.
func icoDimension(v int) uint8 {
	if v <= 0 || v >= 256 {
		return 0
	}
	return uint8(v)
}
