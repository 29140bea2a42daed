package parser

import (
	"errors"
	"fmt"

	"github.com/valyala/fastjson"

	"github.com/kelora-dev/kelora/internal/model"
)

// JSONL parses one JSON object per line. Key order is preserved. Nested
// object and array values are lowered to string fields holding their JSON
// serialization, keeping the Event mapping flat.
type JSONL struct {
	pool fastjson.ParserPool
}

// NewJSONL creates a JSONL parser.
func NewJSONL() *JSONL { return &JSONL{} }

// Name returns the format tag.
func (p *JSONL) Name() string { return "jsonl" }

// Parse decodes one line as a JSON object.
func (p *JSONL) Parse(line string) (*model.Event, error) {
	par := p.pool.Get()
	defer p.pool.Put(par)

	v, err := par.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %v", err)
	}
	obj, err := v.Object()
	if err != nil {
		return nil, errors.New("top-level JSON value is not an object")
	}

	ev := model.NewEvent()
	obj.Visit(func(key []byte, val *fastjson.Value) {
		ev.Set(string(key), lowerJSON(val))
	})

	ev.DetectCore()
	return ev, nil
}

// lowerJSON maps a fastjson value onto the scalar Value union. The parser's
// buffers are reused between lines, so every payload is copied out here.
func lowerJSON(v *fastjson.Value) model.Value {
	switch v.Type() {
	case fastjson.TypeString:
		return model.String(string(v.GetStringBytes()))
	case fastjson.TypeNumber:
		if i, err := v.Int64(); err == nil {
			return model.Int(i)
		}
		// v.String() marshals the raw number token into a fresh buffer, so
		// the literal survives both pool reuse and re-rendering.
		f, _ := v.Float64()
		return model.FloatLit(f, v.String())
	case fastjson.TypeTrue:
		return model.Bool(true)
	case fastjson.TypeFalse:
		return model.Bool(false)
	case fastjson.TypeNull:
		return model.Null()
	default:
		// Object or array: keep the original JSON text, not a sub-mapping.
		return model.String(v.String())
	}
}
