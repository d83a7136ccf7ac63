// Package ai contiene los adaptadores HTTP hacia los modelos de predicción
// externos. Son proxies puros: arman un multipart saliente con el archivo (y
// campos auxiliares si los hay), lo envían al endpoint fijo configurado y
// relayan el cuerpo JSON sin validar su forma.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/baselshm/breathtech-api/internal/application/dto"
	"github.com/baselshm/breathtech-api/internal/domain"
)

// maxRelayBody límite de lectura de la respuesta del modelo.
const maxRelayBody = 1 << 20 // 1 MiB

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// forwardMultipart construye la petición multipart saliente (archivo bajo el
// campo "file" + pares clave/valor opacos) y devuelve el JSON del endpoint.
// Cualquier fallo de red, estado no-2xx o cuerpo no-JSON se reporta como
// domain.ErrUpstream con el detalle del endpoint.
func forwardMultipart(ctx context.Context, client *http.Client, endpoint string, file dto.FileUpload, fields map[string]string) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	// Parte del archivo, conservando el content type original si llegó.
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Filename)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("crear parte multipart: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, fmt.Errorf("escribir archivo multipart: %w", err)
	}

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("escribir campo %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("cerrar multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: timeout o cancelación: %v", domain.ErrUpstream, ctx.Err())
		}
		return nil, fmt.Errorf("%w: llamada HTTP fallida: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayBody))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: respuesta no es JSON válido", domain.ErrUpstream)
	}
	return json.RawMessage(raw), nil
}
