package preset

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"golang.org/x/image/riff"
)

/*
RIFF 'STEG'
  'parm' chunk, 6 bytes, little endian:
    WORD version
    WORD modulus
    WORD offset
  'text' chunk, UTF-8, padded to an even size
*/

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	stegType = riff.FourCC{'S', 'T', 'E', 'G'}
	parmType = riff.FourCC{'p', 'a', 'r', 'm'}
	textType = riff.FourCC{'t', 'e', 'x', 't'}
)

const (
	version  = 1
	parmSize = 6
)

func ReadFrom(r io.Reader) (Preset, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return Preset{}, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != stegType {
		return Preset{}, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	var p Preset
	var hasParams bool
	for i := 0; ; i++ {
		id, size, data, err := rd.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return p, fmt.Errorf("could not read chunk #%d: %w", i, err)
		}

		switch id {
		case parmType:
			if p.Modulus, p.Offset, err = readParams(data, size); err != nil {
				return p, fmt.Errorf("could not read chunk #%d: %w", i, err)
			}
			hasParams = true
		case textType:
			text, err := io.ReadAll(data)
			if err != nil {
				return p, fmt.Errorf("could not read text from chunk #%d: %w", i, err)
			}
			p.Text = string(text)
		}
	}

	if !hasParams {
		return p, fmt.Errorf("missing %s chunk", string(parmType[:]))
	}
	if err := p.Params().Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func readParams(r io.Reader, size uint32) (modulus, offset int, err error) {
	if size != parmSize {
		return 0, 0, fmt.Errorf("unexpected parameter chunk size: %d", size)
	}

	buf := make([]byte, parmSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, 0, fmt.Errorf("could not read parameters: %w", err)
	}

	if ver := binary.LittleEndian.Uint16(buf); ver != version {
		return 0, 0, fmt.Errorf("unsupported preset version: %d", ver)
	}
	return int(binary.LittleEndian.Uint16(buf[2:])), int(binary.LittleEndian.Uint16(buf[4:])), nil
}

func WriteTo(w io.Writer, p Preset) (int64, error) {
	if err := p.Params().Validate(); err != nil {
		return 0, err
	}
	if p.Modulus > math.MaxUint16 || p.Offset > math.MaxUint16 {
		return 0, fmt.Errorf("parameters do not fit a preset: modulus %d, offset %d", p.Modulus, p.Offset)
	}

	text := []byte(p.Text)
	if len(text)%2 == 1 {
		text = append(text, 0)
	}
	// form type + two chunk headers + chunk data
	n := 4 + 8 + parmSize + 8 + len(text)

	var count int64
	header := append(riffType[:], binary.LittleEndian.AppendUint32(nil, uint32(n))...)
	header = append(header, stegType[:]...)
	if err := writeBytes(w, header, &count); err != nil {
		return count, fmt.Errorf("could not write RIFF header: %w", err)
	}

	parm := binary.LittleEndian.AppendUint16(nil, version)
	parm = binary.LittleEndian.AppendUint16(parm, uint16(p.Modulus))
	parm = binary.LittleEndian.AppendUint16(parm, uint16(p.Offset))
	if err := writeChunk(w, parmType, parm, len(parm), &count); err != nil {
		return count, err
	}

	if err := writeChunk(w, textType, text, len(p.Text), &count); err != nil {
		return count, err
	}

	return count, nil
}

// writeChunk writes data, whose declared size may be one byte short of
// len(data) when a padding byte was appended.
func writeChunk(w io.Writer, id riff.FourCC, data []byte, size int, count *int64) error {
	head := append(id[:], binary.LittleEndian.AppendUint32(nil, uint32(size))...)
	if err := writeBytes(w, head, count); err != nil {
		return fmt.Errorf("could not write %s chunk header: %w", string(id[:]), err)
	}
	if err := writeBytes(w, data, count); err != nil {
		return fmt.Errorf("could not write %s chunk: %w", string(id[:]), err)
	}
	return nil
}

func writeBytes(w io.Writer, b []byte, count *int64) error {
	n, err := w.Write(b)
	*count += int64(n)
	if err != nil {
		return err
	} else if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}

	return nil
}
