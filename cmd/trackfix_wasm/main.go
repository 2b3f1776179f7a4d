//go:build js && wasm

package main

import (
	"context"
	"syscall/js"

	"github.com/lucasjlepore/trackfix/config"
	"github.com/lucasjlepore/trackfix/pipeline"
)

func main() {
	js.Global().Set("processTrack", js.FuncOf(processTrack))
	select {}
}

// processTrack(fileBytes Uint8Array, options object) returns
// {ok, error, output, warnings, samples}. Option keys match the config
// file keys, e.g. output_format or max_grade, plus source_file_name.
func processTrack(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return map[string]any{
			"ok":    false,
			"error": "expected arguments: fileBytes(Uint8Array), options(object)",
		}
	}
	fileArg := args[0]
	optsArg := args[1]
	if fileArg.IsUndefined() || fileArg.IsNull() || fileArg.Get("length").Int() == 0 {
		return map[string]any{
			"ok":    false,
			"error": "input file bytes are required",
		}
	}

	fileBytes := make([]byte, fileArg.Get("length").Int())
	if n := js.CopyBytesToGo(fileBytes, fileArg); n == 0 {
		return map[string]any{
			"ok":    false,
			"error": "failed to read input bytes from JS",
		}
	}

	overrides := map[string]string{}
	for _, key := range config.Keys() {
		if s, ok := getString(optsArg, key); ok {
			overrides[key] = s
		}
	}
	cfg, err := config.Load("", overrides)
	if err != nil {
		return failure(err)
	}
	proc, err := cfg.Processor(nil)
	if err != nil {
		return failure(err)
	}
	out, err := cfg.Output()
	if err != nil {
		return failure(err)
	}

	name, ok := getString(optsArg, "source_file_name")
	if !ok {
		name = "input.gpx"
	}
	result, err := pipeline.RunBytes(context.Background(), pipeline.BytesOptions{
		SourceFileName: name,
		Data:           fileBytes,
		Processing:     proc,
		Output:         out,
	})
	if err != nil {
		return failure(err)
	}

	payload := js.Global().Get("Uint8Array").New(len(result.Output))
	js.CopyBytesToJS(payload, result.Output)
	return map[string]any{
		"ok":       true,
		"output":   payload,
		"warnings": stringsToAny(result.Warnings),
		"samples":  result.Samples,
	}
}

func failure(err error) map[string]any {
	return map[string]any{
		"ok":    false,
		"error": err.Error(),
	}
}

// getString reads a string, number or boolean option as text.
func getString(v js.Value, key string) (string, bool) {
	if v.IsUndefined() || v.IsNull() {
		return "", false
	}
	out := v.Get(key)
	if out.IsUndefined() || out.IsNull() {
		return "", false
	}
	s := out.String()
	if out.Type() == js.TypeNumber || out.Type() == js.TypeBoolean {
		s = js.Global().Get("String").Invoke(out).String()
	}
	if s == "" || s == "undefined" || s == "null" {
		return "", false
	}
	return s, true
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
