package templaterenderer

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	contentTypesPart = "[Content_Types].xml"
	relTypeImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

var contentPartRe = regexp.MustCompile(`^word/(document|header\d*|footer\d*)\.xml$`)

// docxPackage содержимое docx архива, порядок файлов сохраняется
type docxPackage struct {
	order    []string
	headers  map[string]zip.FileHeader
	files    map[string][]byte
	imageSeq int
}

func openPackage(data []byte) (*docxPackage, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "шаблон не является docx документом")
	}
	pkg := &docxPackage{
		headers: map[string]zip.FileHeader{},
		files:   map[string][]byte{},
	}
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "ошибка чтения %s", f.Name)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "ошибка чтения %s", f.Name)
		}
		pkg.order = append(pkg.order, f.Name)
		pkg.headers[f.Name] = f.FileHeader
		pkg.files[f.Name] = content
	}
	if _, ok := pkg.files["word/document.xml"]; !ok {
		return nil, errors.New("в шаблоне отсутствует word/document.xml")
	}
	return pkg, nil
}

// contentParts части документа, в которых ищутся метки
func (p *docxPackage) contentParts() []string {
	result := make([]string, 0)
	for _, name := range p.order {
		if contentPartRe.MatchString(name) {
			result = append(result, name)
		}
	}
	sort.SliceStable(result, func(a, b int) bool {
		// основной текст первым
		return result[a] == "word/document.xml" && result[b] != "word/document.xml"
	})
	return result
}

func (p *docxPackage) put(name string, content []byte) {
	if _, ok := p.files[name]; !ok {
		p.order = append(p.order, name)
	}
	p.files[name] = content
}

func (p *docxPackage) bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	writer := zip.NewWriter(buf)
	for _, name := range p.order {
		header := &zip.FileHeader{Name: name, Method: zip.Deflate}
		if orig, ok := p.headers[name]; ok {
			header.Modified = orig.Modified
		}
		w, err := writer.CreateHeader(header)
		if err != nil {
			return nil, errors.Wrapf(err, "ошибка записи %s", name)
		}
		if _, err = w.Write(p.files[name]); err != nil {
			return nil, errors.Wrapf(err, "ошибка записи %s", name)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования docx")
	}
	return buf.Bytes(), nil
}

// relsName файл связей для части, word/document.xml -> word/_rels/document.xml.rels
func relsName(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

var relIDRe = regexp.MustCompile(`Id="([^"]+)"`)

// addImageRelationship добавляет связь части с изображением и возвращает её идентификатор
func (p *docxPackage) addImageRelationship(part, target string) string {
	name := relsName(part)
	rels, ok := p.files[name]
	if !ok {
		rels = []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`)
	}
	existing := map[string]bool{}
	for _, m := range relIDRe.FindAllSubmatch(rels, -1) {
		existing[string(m[1])] = true
	}
	id := ""
	for n := 1; ; n++ {
		id = "rIdEsign" + strconv.Itoa(n)
		if !existing[id] {
			break
		}
	}
	rel := `<Relationship Id="` + id + `" Type="` + relTypeImage + `" Target="` + target + `"/>`
	content := string(rels)
	pos := strings.LastIndex(content, "</Relationships>")
	if pos < 0 {
		content = strings.Replace(content, "/>", ">"+rel+"</Relationships>", 1)
	} else {
		content = content[:pos] + rel + content[pos:]
	}
	p.put(name, []byte(content))
	return id
}

// ensureContentType регистрирует расширение медиафайла в [Content_Types].xml
func (p *docxPackage) ensureContentType(ext, contentType string) {
	types, ok := p.files[contentTypesPart]
	if !ok {
		return
	}
	content := string(types)
	if strings.Contains(strings.ToLower(content), `extension="`+ext+`"`) {
		return
	}
	def := `<Default Extension="` + ext + `" ContentType="` + contentType + `"/>`
	pos := strings.LastIndex(content, "</Types>")
	if pos < 0 {
		return
	}
	p.put(contentTypesPart, []byte(content[:pos]+def+content[pos:]))
}

func (p *docxPackage) nextMediaName(ext string) string {
	for n := 1; ; n++ {
		name := "word/media/esign" + strconv.Itoa(n) + "." + ext
		if _, ok := p.files[name]; !ok {
			return name
		}
	}
}
