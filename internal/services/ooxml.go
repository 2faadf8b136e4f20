package services

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Word and PowerPoint files are zip archives of XML parts. Text lives in
// <w:t> (documents) and <a:t> (slides) elements; paragraph boundaries map
// to newlines.

func extractDocx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open document archive: %w", err)
	}
	defer archive.Close()

	part, err := openZipPart(&archive.Reader, "word/document.xml")
	if err != nil {
		return "", err
	}
	defer part.Close()

	text, err := collectXMLText(part)
	if err != nil {
		return "", fmt.Errorf("failed to parse document XML: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in document")
	}
	return text, nil
}

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func extractPptx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open presentation archive: %w", err)
	}
	defer archive.Close()

	type slidePart struct {
		num  int
		file *zip.File
	}
	var slides []slidePart
	for _, f := range archive.File {
		m := slidePartPattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		slides = append(slides, slidePart{num: num, file: f})
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("no slides found in presentation")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var sb strings.Builder
	for _, slide := range slides {
		rc, err := slide.file.Open()
		if err != nil {
			continue
		}
		text, err := collectXMLText(rc)
		rc.Close()
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&sb, "--- Slide %d ---\n%s\n\n", slide.num, text)
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in presentation")
	}
	return text, nil
}

func openZipPart(r *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open archive part %s: %w", name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("archive part %s not found", name)
}

// collectXMLText streams XML tokens and gathers character data inside
// <t> elements, inserting newlines at paragraph ends.
func collectXMLText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
