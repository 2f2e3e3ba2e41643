package photoconfig

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	maxTIFFSize = 256 << 20
	maxIFDs     = 32
)

var errNoExifSegment = errors.New("no exif segment")

// tiffTypeSize is the byte size of each TIFF field type.
var tiffTypeSize = map[uint16]uint64{
	1: 1, 2: 1, 3: 2, 4: 4, 5: 8, 6: 1,
	7: 1, 8: 2, 9: 4, 10: 8, 11: 4, 12: 8,
}

// Exif, GPS and Interoperability IFD pointers.
var subIFDTags = map[uint16]bool{0x8769: true, 0x8825: true, 0xA005: true}

// readTIFF returns the TIFF structure holding an image's EXIF data:
// the APP1 payload of a JPEG, or the whole file for a TIFF.
func readTIFF(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	switch string(head) {
	case "II*\x00", "MM\x00*":
		return io.ReadAll(io.LimitReader(br, maxTIFFSize))
	}

	if head[0] != 0xFF || head[1] != 0xD8 {
		return nil, errors.New("not a jpeg or tiff file")
	}
	if _, err := br.Discard(2); err != nil {
		return nil, err
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, errNoExifSegment
		}
		if b != 0xFF {
			return nil, fmt.Errorf("bad jpeg marker 0x%02x", b)
		}

		m := byte(0xFF)
		for m == 0xFF {
			if m, err = br.ReadByte(); err != nil {
				return nil, errNoExifSegment
			}
		}

		switch {
		case m == 0xD9 || m == 0xDA:
			return nil, errNoExifSegment
		case m == 0x01 || (m >= 0xD0 && m <= 0xD7):
			continue
		}

		var l uint16
		if err := binary.Read(br, binary.BigEndian, &l); err != nil {
			return nil, fmt.Errorf("segment length: %w", err)
		}
		if l < 2 {
			return nil, fmt.Errorf("bad segment length %d", l)
		}

		seg := make([]byte, l-2)
		if _, err := io.ReadFull(br, seg); err != nil {
			return nil, fmt.Errorf("segment 0x%02x: %w", m, err)
		}
		if m == 0xE1 && bytes.HasPrefix(seg, []byte("Exif\x00\x00")) {
			return seg[6:], nil
		}
	}
}

// checkTIFF verifies that every IFD reachable by the decoder, and every
// value it references, lies inside b.
func checkTIFF(b []byte) error {
	n := uint64(len(b))
	if n < 8 {
		return errors.New("short tiff header")
	}

	var order binary.ByteOrder
	switch string(b[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return fmt.Errorf("bad byte order %q", b[:2])
	}
	if order.Uint16(b[2:]) != 42 {
		return errors.New("bad tiff magic")
	}

	type ifd struct {
		off   uint32
		chain bool
	}

	first := order.Uint32(b[4:])
	if first == 0 {
		return errors.New("no ifd0")
	}

	visited := map[uint32]bool{}
	queue := []ifd{{off: first, chain: true}}
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]

		if visited[d.off] {
			return fmt.Errorf("ifd loop at offset %d", d.off)
		}
		visited[d.off] = true
		if len(visited) > maxIFDs {
			return errors.New("too many ifds")
		}

		o := uint64(d.off)
		if o+2 > n {
			return fmt.Errorf("ifd offset %d out of range", o)
		}
		count := uint64(order.Uint16(b[o:]))
		end := o + 2 + count*12
		if end+4 > n {
			return fmt.Errorf("ifd at %d overruns data", o)
		}

		for i := uint64(0); i < count; i++ {
			e := b[o+2+i*12:]
			tag := order.Uint16(e)
			typ := order.Uint16(e[2:])
			cnt := uint64(order.Uint32(e[4:]))

			size, ok := tiffTypeSize[typ]
			if !ok {
				continue
			}
			if l := size * cnt; l > 4 {
				vo := uint64(order.Uint32(e[8:]))
				if vo+l > n {
					return fmt.Errorf("tag 0x%04x: %d bytes at offset %d out of range", tag, l, vo)
				}
			}

			if !subIFDTags[tag] {
				continue
			}
			switch typ {
			case 3:
				queue = append(queue, ifd{off: uint32(order.Uint16(e[8:]))})
			case 4, 9:
				queue = append(queue, ifd{off: order.Uint32(e[8:])})
			}
		}

		if next := order.Uint32(b[end:]); d.chain && next != 0 {
			queue = append(queue, ifd{off: next, chain: true})
		}
	}

	return nil
}
