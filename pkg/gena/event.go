package gena

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// lastChange is the AVTransport property wrapping an Event document.
const lastChange = "LastChange"

// ErrMalformedEvent indicates a NOTIFY body that is not a propertyset.
var ErrMalformedEvent = errors.New("malformed event")

// DecodePropertySet flattens a GENA propertyset into snake_case variables.
// A LastChange property is expanded into the val attributes of its
// InstanceID children.
func DecodePropertySet(body []byte) (map[string]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	vars := make(map[string]string)

	depth := 0
	sawSet := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 1:
				if t.Name.Local != "propertyset" {
					return nil, fmt.Errorf("%w: root element %q", ErrMalformedEvent, t.Name.Local)
				}
				sawSet = true
			case 3:
				// propertyset > property > variable
				var value string
				if err := dec.DecodeElement(&value, &t); err != nil {
					return nil, fmt.Errorf("%w: property %s: %w", ErrMalformedEvent, t.Name.Local, err)
				}
				depth--
				if t.Name.Local == lastChange {
					if err := decodeLastChange(value, vars); err != nil {
						return nil, err
					}
					continue
				}
				vars[SnakeCase(t.Name.Local)] = strings.TrimSpace(value)
			}
		case xml.EndElement:
			depth--
		}
	}

	if !sawSet {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedEvent)
	}
	return vars, nil
}

// decodeLastChange reads <Event><InstanceID val="0"><X val="..."/>...</InstanceID></Event>.
func decodeLastChange(doc string, vars map[string]string) error {
	if strings.TrimSpace(doc) == "" {
		return nil
	}

	var ev struct {
		Instances []struct {
			Vars []struct {
				XMLName xml.Name
				Val     string `xml:"val,attr"`
			} `xml:",any"`
		} `xml:"InstanceID"`
	}
	if err := xml.Unmarshal([]byte(doc), &ev); err != nil {
		return fmt.Errorf("%w: LastChange: %w", ErrMalformedEvent, err)
	}

	for _, inst := range ev.Instances {
		for _, v := range inst.Vars {
			vars[SnakeCase(v.XMLName.Local)] = v.Val
		}
	}
	return nil
}

// SnakeCase converts an UPnP variable name to snake_case:
// TransportState becomes transport_state, AVTransportURI becomes
// av_transport_uri.
func SnakeCase(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	sb.Grow(len(name) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sb.WriteByte('_')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
