package ingest

import (
	"encoding/binary"
	"fmt"

	"github.com/tormoder/fit/dyncrc16"
)

const (
	fitHeaderSizeNoCRC = 12
	fitHeaderSizeCRC   = 14
)

// checkFITHeader validates the file header before the bytes reach the
// decoder, so a file that is not FIT, or is cut short, fails with a
// specific message.
func checkFITHeader(data []byte) error {
	if len(data) < fitHeaderSizeNoCRC {
		return fmt.Errorf("truncated fit header: %d bytes", len(data))
	}
	size := int(data[0])
	if size != fitHeaderSizeNoCRC && size != fitHeaderSizeCRC {
		return fmt.Errorf("invalid fit header size: %d", size)
	}
	if len(data) < size {
		return fmt.Errorf("truncated fit header: need %d bytes", size)
	}
	if dataType := string(data[8:12]); dataType != ".FIT" {
		return fmt.Errorf("invalid fit data type in header: %q", dataType)
	}
	// a stored header crc of zero means the writer skipped it
	if size == fitHeaderSizeCRC {
		if stored := binary.LittleEndian.Uint16(data[12:14]); stored != 0 {
			if computed := dyncrc16.Checksum(data[:12]); computed != stored {
				return fmt.Errorf("fit header crc mismatch: stored 0x%04X computed 0x%04X", stored, computed)
			}
		}
	}
	dataSize := int(binary.LittleEndian.Uint32(data[4:8]))
	if need := size + dataSize + 2; len(data) < need {
		return fmt.Errorf("truncated fit file: need %d bytes, have %d", need, len(data))
	}
	return nil
}
