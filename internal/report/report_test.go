package report

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mrportal/domain/aggregation"
	"mrportal/domain/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(t *testing.T) *aggregation.Result {
	t.Helper()
	ds := &tabular.Dataset{
		Headers: []string{"Status", "ano Acionamento"},
		Rows: [][]string{
			{"Concluído", "2024"},
			{"Concluído", "2025"},
			{"Cancelado", "2025"},
			{"Aguardando doc. Enel", "2024"},
			{"Em análise Prefeitura", "2025"},
		},
	}
	return aggregation.Aggregate(ds, aggregation.Options{
		StatusColumn: "Status",
		Years:        []int{2024, 2025},
		Classifier:   aggregation.NewClassifier(nil, []string{"Cancelado"}),
		Precision:    1,
	})
}

func TestBuildTable(t *testing.T) {
	years := []int{2024, 2025}
	rows := BuildTable(sampleResult(t), years, map[string]string{
		KeyEmAndamento:         "Em Tratativa",
		"Aguardando doc. Enel": "Aguardando documentação",
	})

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Indicador
	}
	assert.Equal(t, []string{
		"Total Demandado", "Concluídos", "Cancelados", "Em Tratativa",
		"Aguardando documentação", "Em análise Prefeitura",
	}, names)

	assert.True(t, rows[0].IsTotal)
	assert.True(t, rows[0].IsMain)
	assert.Equal(t, 5, rows[0].Total)
	assert.Equal(t, 100.0, rows[0].Percentual)
	assert.Equal(t, map[int]int{2024: 1, 2025: 1}, rows[1].Years)
	assert.Equal(t, 40.0, rows[1].Percentual)
	assert.Equal(t, 1, rows[4].Level)
	assert.False(t, rows[4].IsMain)
	assert.Equal(t, 0, rows[4].YearValue(2025))
}

func TestBuildTableOmitsEmptyCancelados(t *testing.T) {
	result := aggregation.Aggregate(&tabular.Dataset{
		Headers: []string{"Status", "ano Acionamento"},
		Rows:    [][]string{{"Concluído", "2024"}},
	}, aggregation.Options{StatusColumn: "Status", Years: []int{2024}})

	rows := BuildTable(result, []int{2024}, nil)
	require.Len(t, rows, 3)
	assert.Equal(t, "Em Andamento", rows[2].Indicador)
	assert.Empty(t, BuildTable(nil, []int{2024}, nil))
}

func TestSplitComments(t *testing.T) {
	alvaras, licenca := SplitComments([]Comment{
		{Text: "sem página"},
		{Page: PageAlvaras, Text: "alvarás"},
		{Page: " " + PageLicenca + " ", Text: "licença"},
		{Page: "Outra página", Text: "descartado"},
	})
	require.Len(t, alvaras, 2)
	require.Len(t, licenca, 1)
	assert.Equal(t, "licença", licenca[0].Text)
}

func TestCommentJSON(t *testing.T) {
	var comments []Comment
	raw := `["texto antigo", {"page": "Licença Sanitária - Renovação", "title": "Nota", "text": "**ok**"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &comments))
	require.Len(t, comments, 2)
	assert.Equal(t, Comment{Text: "texto antigo"}, comments[0])
	assert.Equal(t, PageLicenca, comments[1].Page)
	assert.Equal(t, "Nota", comments[1].Title)

	alvaras, licenca := SplitComments(comments)
	assert.Len(t, alvaras, 1)
	assert.Len(t, licenca, 1)

	assert.Error(t, json.Unmarshal([]byte(`[42]`), &comments))
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"month", MonthName(2), "Março"},
		{"month out of range", MonthName(12), ""},
		{"filename", Filename("enel", 2025, 0), "relatorio-enel-2025-01.pdf"},
		{"thousands", formatInt(1234567), "1.234.567"},
		{"small", formatInt(12), "12"},
		{"negative", formatInt(-1022), "-1.022"},
		{"percent", formatPercent(33.333), "33,3%"},
		{"percent whole", formatPercent(100), "100,0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestMarkdown(t *testing.T) {
	source := "**Atenção**: prazos\n\n- item um\n- item dois\n\n<script>alert(1)</script>"

	html := string(MarkdownHTML(source))
	assert.Contains(t, html, "<strong>Atenção</strong>")
	assert.Contains(t, html, "<li>item um</li>")
	assert.NotContains(t, html, "<script>")

	links := string(MarkdownHTML("[abrir](javascript:alert(1)) e [site](https://mr.com.br)"))
	assert.NotContains(t, links, `href="javascript`)
	assert.Contains(t, links, `href="https://mr.com.br"`)

	text := MarkdownText(source)
	assert.True(t, strings.HasPrefix(text, "Atenção: prazos"), text)
	assert.Contains(t, text, "- item um\n- item dois")
	assert.NotContains(t, text, "**")
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{47, 132, 168, 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestDirLocator(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writePNG(t, filepath.Join(second, "ENEL-logo.png"))
	writePNG(t, filepath.Join(first, MRLogo))

	locator := NewDirLocator("", first, second)

	path, ok := locator.Locate("images/enel-logo.png")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(second, "ENEL-logo.png"), path)

	path, ok = locator.Locate(MRLogo)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(first, MRLogo), path)

	_, ok = locator.Locate("cteep-logo.png")
	assert.False(t, ok)
	_, ok = locator.Locate("")
	assert.False(t, ok)
}

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	dir := t.TempDir()
	logo := filepath.Join(dir, "enel-logo.png")
	writePNG(t, logo)

	years := []int{2024, 2025}
	return &Document{
		ClientID:      "enel",
		ClientName:    "ENEL",
		Month:         4,
		Year:          2025,
		Estados:       []string{"CE", "SP"},
		Legalizacao:   []string{"CE"},
		Regularizacao: []string{"RJ", "SP"},
		Years:         years,
		Pages: []*Page{
			{
				Title:    PageAlvaras,
				Rows:     BuildTable(sampleResult(t), years, nil),
				Comments: []Comment{{Title: "Destaque", Text: "Processos **concluídos** no prazo"}},
			},
			{Title: PageLicenca, Warning: "Coluna 'Relatório Natureza da Operação' não encontrada na planilha"},
		},
		MRLogoPath: filepath.Join(dir, "missing.png"),
		ClientLogo: logo,
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleDocument(t)))

	out := buf.String()
	assert.Contains(t, out, "Maio de 2025")
	assert.Contains(t, out, "Estados: CE | SP")
	assert.Contains(t, out, PageAlvaras)
	assert.Contains(t, out, "Aguardando doc. Enel")
	assert.Contains(t, out, "40,0%")
	assert.Contains(t, out, "<strong>concluídos</strong>")
	assert.Contains(t, out, "não encontrada na planilha")
	assert.Contains(t, out, "data:image/png;base64,")
	assert.Equal(t, 1, strings.Count(out, "data:image/png;base64,"), "missing logo must be skipped")
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, sampleDocument(t)))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
}

func TestRenderPDFWithoutPages(t *testing.T) {
	var buf bytes.Buffer
	doc := &Document{ClientID: "enel", ClientName: "ENEL", Month: 0, Year: 2025, ClientLogo: "logo.gif"}
	require.NoError(t, RenderPDF(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
