package templaterenderer

import (
	"bytes"
	"esign-backend/models"
	"html"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	paragraphRe = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	// самозакрытый <w:t/> не является текстовым узлом
	textNodeRe  = regexp.MustCompile(`(?s)(<w:t(?:\s[^>]*[^/>]|\s)?>)(.*?)(</w:t>)`)
	tagRe       = regexp.MustCompile(`\{([^{}]+)\}`)
	markerRe    = regexp.MustCompile("\x00img:(\\d+)\x00")
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\x00", "",
)

type textNode struct {
	start, end int // границы узла в абзаце
	open       string
	text       string
	offset     int // смещение текста узла в тексте абзаца
	length     int
}

func parseTextNodes(par []byte) ([]textNode, string) {
	locs := textNodeRe.FindAllSubmatchIndex(par, -1)
	nodes := make([]textNode, 0, len(locs))
	full := strings.Builder{}
	for _, loc := range locs {
		text := html.UnescapeString(string(par[loc[4]:loc[5]]))
		nodes = append(nodes, textNode{
			start:  loc[0],
			end:    loc[1],
			open:   string(par[loc[2]:loc[3]]),
			text:   text,
			offset: full.Len(),
			length: len(text),
		})
		full.WriteString(text)
	}
	return nodes, full.String()
}

// findTags метки в порядке появления, метка может быть разбита на несколько w:r
func findTags(content []byte) []string {
	result := make([]string, 0)
	for _, par := range paragraphRe.FindAll(content, -1) {
		_, full := parseTextNodes(par)
		for _, m := range tagRe.FindAllStringSubmatch(full, -1) {
			tag := strings.TrimSpace(m[1])
			if tag != "" {
				result = append(result, tag)
			}
		}
	}
	return result
}

type partRenderer struct {
	pkg      *docxPackage
	name     string
	opts     renderOptions
	drawings []string
}

func (r *partRenderer) render(content []byte) ([]byte, error) {
	var renderErr error
	out := paragraphRe.ReplaceAllFunc(content, func(par []byte) []byte {
		if renderErr != nil {
			return par
		}
		result, err := r.renderParagraph(par)
		if err != nil {
			renderErr = err
			return par
		}
		return result
	})
	if renderErr != nil {
		return nil, renderErr
	}
	return out, nil
}

func (r *partRenderer) renderParagraph(par []byte) ([]byte, error) {
	nodes, full := parseTextNodes(par)
	matches := tagRe.FindAllStringSubmatchIndex(full, -1)
	if len(matches) == 0 {
		return par, nil
	}
	for m := len(matches) - 1; m >= 0; m-- {
		start, end := matches[m][0], matches[m][1]
		tag := strings.TrimSpace(full[matches[m][2]:matches[m][3]])
		value, err := r.value(tag)
		if err != nil {
			return nil, err
		}
		first := nodeAt(nodes, start)
		last := nodeAt(nodes, end-1)
		if first < 0 || last < 0 {
			continue
		}
		startOff := start - nodes[first].offset
		endOff := end - nodes[last].offset
		if first == last {
			text := nodes[first].text
			nodes[first].text = text[:startOff] + value + text[endOff:]
			continue
		}
		nodes[first].text = nodes[first].text[:startOff] + value
		for idx := first + 1; idx < last; idx++ {
			nodes[idx].text = ""
		}
		nodes[last].text = nodes[last].text[endOff:]
	}

	buf := new(bytes.Buffer)
	prev := 0
	for _, node := range nodes {
		buf.Write(par[prev:node.start])
		r.writeNode(buf, node)
		prev = node.end
	}
	buf.Write(par[prev:])
	return buf.Bytes(), nil
}

// nodeAt индекс узла, содержащего позицию исходного текста абзаца
func nodeAt(nodes []textNode, pos int) int {
	for idx, node := range nodes {
		if pos >= node.offset && pos < node.offset+node.length {
			return idx
		}
	}
	return -1
}

func (r *partRenderer) writeNode(buf *bytes.Buffer, node textNode) {
	open := preserveSpace(node.open)
	locs := markerRe.FindAllStringSubmatchIndex(node.text, -1)
	prev := 0
	for _, loc := range locs {
		buf.WriteString(open + xmlEscaper.Replace(node.text[prev:loc[0]]) + "</w:t>")
		num, _ := strconv.Atoi(node.text[loc[2]:loc[3]])
		// изображение размещается в отдельном w:r
		buf.WriteString("</w:r><w:r>" + r.drawings[num] + "</w:r><w:r>")
		prev = loc[1]
	}
	buf.WriteString(open + xmlEscaper.Replace(node.text[prev:]) + "</w:t>")
}

func preserveSpace(open string) string {
	if strings.Contains(open, "xml:space") {
		return open
	}
	return strings.Replace(open, "<w:t", `<w:t xml:space="preserve"`, 1)
}

func (r *partRenderer) value(tag string) (string, error) {
	if models.IsImageTag(tag) {
		return r.image(tag)
	}
	if value, ok := r.opts.data[tag]; ok {
		return strings.ReplaceAll(value, "\x00", ""), nil
	}
	if r.opts.preview {
		return tag, nil
	}
	return "", nil
}

func (r *partRenderer) image(tag string) (string, error) {
	name := models.TrimImagePrefix(tag)
	if r.opts.images == nil {
		if r.opts.preview {
			return tag, nil
		}
		return "", models.AssetNotFound(name)
	}
	data, err := r.opts.images.Image(name)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", models.AssetNotFound(name)
	}
	contentType := http.DetectContentType(data)
	ext := ""
	switch contentType {
	case "image/png":
		ext = "png"
	case "image/jpeg":
		ext = "jpeg"
	default:
		return "", errors.Errorf("неподдерживаемый формат изображения %s для метки %s", contentType, name)
	}
	mediaName := r.pkg.nextMediaName(ext)
	r.pkg.put(mediaName, data)
	r.pkg.ensureContentType(ext, contentType)
	relID := r.pkg.addImageRelationship(r.name, "media/"+mediaName[len("word/media/"):])
	width, height := imageSize(name)
	r.pkg.imageSeq++
	r.drawings = append(r.drawings, drawingXML(relID, r.pkg.imageSeq, name, width, height))
	return "\x00img:" + strconv.Itoa(len(r.drawings)-1) + "\x00", nil
}
