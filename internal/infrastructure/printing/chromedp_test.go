package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintParams(t *testing.T) {
	r := &ChromedpRenderer{config: ChromedpConfig{Scale: 1}}

	tests := []struct {
		name       string
		req        *RenderRequest
		width      float64
		height     float64
		landscape  bool
		footer     bool
		minBottomI float64
	}{
		{"a4 portrait", &RenderRequest{Paper: PaperA4, Margins: DefaultMargins()}, 210, 297, false, false, mmToInches(10)},
		{"a5 landscape", &RenderRequest{Paper: PaperA5, Landscape: true, Margins: DefaultMargins()}, 148, 210, true, false, mmToInches(10)},
		{"footer widens bottom margin", &RenderRequest{Paper: PaperA4, FooterHTML: "<span class=pageNumber></span>"}, 210, 297, false, true, mmToInches(12)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := r.printParams(tt.req)
			assert.InDelta(t, mmToInches(tt.width), p.PaperWidth, 0.001)
			assert.InDelta(t, mmToInches(tt.height), p.PaperHeight, 0.001)
			assert.Equal(t, tt.landscape, p.Landscape)
			assert.Equal(t, tt.footer, p.DisplayHeaderFooter)
			assert.InDelta(t, tt.minBottomI, p.MarginBottom, 0.001)
			assert.True(t, p.PrintBackground)
		})
	}
}

func TestBuildDocument(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, buildDocument(&RenderRequest{HTML: full}))

	doc := buildDocument(&RenderRequest{HTML: "<p>Xin chào</p>", Title: "Hóa đơn <1>"})
	assert.Contains(t, doc, `<meta charset="UTF-8">`)
	assert.Contains(t, doc, "<title>Hóa đơn &lt;1&gt;</title>")
	assert.Contains(t, doc, "<body><p>Xin chào</p></body>")
}

func TestRender_Validation(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{})
	defer r.Close()

	_, err := r.Render(context.Background(), &RenderRequest{HTML: "  ", Paper: PaperA4})
	var re *RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrCodeInvalidHTML, re.Code)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "<p>x</p>"})
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrCodeInvalidPaper, re.Code)
}

func TestCountPages(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, countPages(pdf))
	assert.Equal(t, 1, countPages([]byte("garbage")))
}

func TestRenderError(t *testing.T) {
	cause := errors.New("boom")
	err := NewRenderError(ErrCodeRenderFailed, "render failed", cause)
	assert.Equal(t, "render failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "plain", NewRenderError(ErrCodeRenderFailed, "plain", nil).Error())
}
