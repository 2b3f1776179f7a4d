//go:build js

package output

import (
	"errors"
	"io"

	"github.com/lucasjlepore/trackfix"
)

func writeParquet(io.Writer, *trackfix.Track, Options) error {
	return errors.New("parquet output is not available in the browser build")
}
