package auth

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

// encodeMultipart re-encodes a parsed form, fields first and then files,
// keeping each file's original part headers.
func encodeMultipart(form *multipart.Form) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for name, values := range form.Value {
		for _, v := range values {
			if err := w.WriteField(name, v); err != nil {
				return nil, "", err
			}
		}
	}

	for name, files := range form.File {
		for _, fh := range files {
			if err := copyFilePart(w, name, fh); err != nil {
				return nil, "", err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

func copyFilePart(w *multipart.Writer, field string, fh *multipart.FileHeader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fh.Filename))
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(part, f)
	return err
}

// readFile returns the first upload of field, if any.
func readFile(form *multipart.Form, field string) (contentType string, raw []byte, ok bool, err error) {
	files := form.File[field]
	if len(files) == 0 || files[0].Size == 0 {
		return "", nil, false, nil
	}
	f, err := files[0].Open()
	if err != nil {
		return "", nil, false, err
	}
	defer f.Close()

	raw, err = io.ReadAll(f)
	if err != nil {
		return "", nil, false, err
	}
	return files[0].Header.Get("Content-Type"), raw, true, nil
}
