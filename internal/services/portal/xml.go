package portal

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fgeck/captive-autologin/internal/models"
	"golang.org/x/net/html/charset"
)

// leaf collects the text content of the first element with a given name.
type leaf struct {
	name  string
	depth int
	found bool
	text  strings.Builder
}

func (l *leaf) start(name string) {
	switch {
	case l.depth > 0:
		l.depth++
	case !l.found && name == l.name:
		l.depth = 1
	}
}

func (l *leaf) end() {
	if l.depth == 0 {
		return
	}
	l.depth--
	if l.depth == 0 {
		l.found = true
	}
}

func (l *leaf) chars(data []byte) {
	if l.depth > 0 {
		l.text.Write(data)
	}
}

// ParseResponse extracts the first status and message elements from a portal
// XML document. Missing elements yield empty strings; a malformed or empty
// document is an error.
func ParseResponse(body []byte) (models.PortalResponse, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel

	status := &leaf{name: "status"}
	message := &leaf{name: "message"}
	leaves := []*leaf{status, message}
	depth := 0
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.PortalResponse{}, fmt.Errorf("parsing portal response: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && sawRoot {
				return models.PortalResponse{}, fmt.Errorf("parsing portal response: more than one root element")
			}
			sawRoot = true
			depth++
			for _, l := range leaves {
				l.start(t.Name.Local)
			}
		case xml.EndElement:
			depth--
			for _, l := range leaves {
				l.end()
			}
		case xml.CharData:
			if depth == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return models.PortalResponse{}, fmt.Errorf("parsing portal response: text outside the root element")
				}
				continue
			}
			for _, l := range leaves {
				l.chars(t)
			}
		}
	}

	if !sawRoot {
		return models.PortalResponse{}, fmt.Errorf("parsing portal response: document has no root element")
	}

	return models.PortalResponse{
		Status:  strings.TrimSpace(status.text.String()),
		Message: strings.TrimSpace(message.text.String()),
	}, nil
}
