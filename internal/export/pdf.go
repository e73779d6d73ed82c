package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	models "quizbank/internal/domain/models/quizbank"
	quizSvc "quizbank/internal/domain/services/quizbank"
)

const (
	pageMargin      = 15.0
	bodyLineHeight  = 6.0
	answerRowHeight = 5.5
	imageMaxHeight  = 85.0
	imageMaxShare   = 0.9
	optionIndent    = 7.0
	answerColShare  = 0.45
	unavailableText = "[image unavailable]"
)

// PDFRenderer draws an export Sheet onto A4 pages with gofpdf
type PDFRenderer struct {
	flattener *RichTextFlattener
	images    ImageFetcher
	logger    *slog.Logger
}

var _ quizSvc.DocumentRenderer = (*PDFRenderer)(nil)

// NewPDFRenderer creates a renderer. images may be nil, in which case every
// image is drawn as unavailable.
func NewPDFRenderer(images ImageFetcher, logger *slog.Logger) *PDFRenderer {
	return &PDFRenderer{
		flattener: NewRichTextFlattener(),
		images:    images,
		logger:    logger,
	}
}

// Render lays out doc and writes the PDF to w
func (r *PDFRenderer) Render(ctx context.Context, w io.Writer, doc *models.ExportDocument) error {
	sheet := Layout(doc, r.flattener)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(sheet.Title, true)
	pdf.SetCreator("quizbank", false)

	d := &drawer{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		ctx:    ctx,
		images: r.images,
		logger: r.logger,
	}

	if err := d.questionPages(sheet); err != nil {
		return err
	}
	if sheet.AnswerKey != nil {
		d.answerKeyPage(sheet.AnswerKey)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// drawer holds the per-render state
type drawer struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	ctx    context.Context
	images ImageFetcher
	logger *slog.Logger
	imgSeq int
}

func (d *drawer) contentWidth() float64 {
	pageW, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return pageW - left - right
}

// ensureSpace starts a new page if h does not fit above the bottom margin
func (d *drawer) ensureSpace(h float64) {
	_, pageH := d.pdf.GetPageSize()
	_, _, _, bottom := d.pdf.GetMargins()
	if d.pdf.GetY()+h > pageH-bottom {
		d.pdf.AddPage()
	}
}

func (d *drawer) questionPages(sheet *Sheet) error {
	pdf := d.pdf
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, d.tr(sheet.Title), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	for _, section := range sheet.Sections {
		d.ensureSpace(9 + 2*bodyLineHeight)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(0, 9, d.tr(section.Heading), "", 1, "L", true, 0, "")
		pdf.Ln(3)

		for _, q := range section.Questions {
			if err := d.ctx.Err(); err != nil {
				return err
			}
			d.question(q)
		}
	}

	if pdf.Err() {
		return fmt.Errorf("draw questions: %w", pdf.Error())
	}
	return nil
}

func (d *drawer) question(q QuestionBlock) {
	pdf := d.pdf
	left, _, _, _ := pdf.GetMargins()

	d.ensureSpace(3 * bodyLineHeight)

	if q.Inactive {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(0, 5, inactiveQuestionLabel, "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Helvetica", "", 12)
	labelWidth := pdf.GetStringWidth(q.Label) + 1
	pdf.CellFormat(labelWidth, bodyLineHeight, q.Label, "", 0, "L", false, 0, "")
	pdf.MultiCell(0, bodyLineHeight, d.tr(q.Body), "", "L", false)

	if q.ImageURL != "" {
		d.image(q.ImageURL)
	}

	if len(q.Options) > 0 {
		pdf.Ln(1)
		for _, opt := range q.Options {
			pdf.SetX(left + optionIndent)
			pdf.MultiCell(0, bodyLineHeight, d.tr(opt), "", "L", false)
		}
	}

	if q.AnswerLine {
		d.answerLine()
	}

	pdf.Ln(4)
}

// image draws a fetched image centered and scaled to fit. Any failure is
// drawn as a placeholder so one broken link does not fail the export.
func (d *drawer) image(url string) {
	pdf := d.pdf

	data, imgType, err := d.loadImage(url)
	if err != nil {
		d.logger.Warn("export image unavailable", "url", url, "error", err)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, bodyLineHeight, unavailableText, "", 1, "C", false, 0, "")
		return
	}

	d.imgSeq++
	name := "img" + strconv.Itoa(d.imgSeq)
	opts := gofpdf.ImageOptions{ImageType: imgType, ReadDpi: true}
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if info == nil || pdf.Err() {
		return
	}

	w, h := info.Width(), info.Height()
	maxW := d.contentWidth() * imageMaxShare
	if w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if h > imageMaxHeight {
		w = w * imageMaxHeight / h
		h = imageMaxHeight
	}

	d.ensureSpace(h + 4)
	left, _, _, _ := pdf.GetMargins()
	x := left + (d.contentWidth()-w)/2
	y := pdf.GetY() + 2
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	pdf.SetY(y + h + 2)
}

func (d *drawer) loadImage(url string) ([]byte, string, error) {
	if d.images == nil {
		return nil, "", fmt.Errorf("no image fetcher configured")
	}
	data, err := d.images.Fetch(d.ctx, url)
	if err != nil {
		return nil, "", err
	}
	imgType, err := imageType(data)
	if err != nil {
		return nil, "", err
	}
	return data, imgType, nil
}

// answerLine draws a dotted rule for a handwritten answer
func (d *drawer) answerLine() {
	pdf := d.pdf
	d.ensureSpace(12)

	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	y := pdf.GetY() + 8

	pdf.SetDrawColor(153, 153, 153)
	pdf.SetLineWidth(0.3)
	pdf.SetDashPattern([]float64{0.6, 1.2}, 0)
	pdf.Line(left, y, pageW-right, y)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetY(y + 2)
}

// answerKeyPage lists answers two per row, each column 45% of the page width
func (d *drawer) answerKeyPage(sections []AnswerSection) {
	pdf := d.pdf
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, answerKeyTitle, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	left, _, _, _ := pdf.GetMargins()
	colW := d.contentWidth() * answerColShare
	colX := []float64{left, left + d.contentWidth()/2}

	for _, section := range sections {
		d.ensureSpace(8 + 2*answerRowHeight)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(0, 8, d.tr(section.Heading), "", 1, "L", true, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "", 11)
		for i := 0; i < len(section.Answers); i += 2 {
			row := section.Answers[i:min(i+2, len(section.Answers))]

			rowLines := 1
			for _, a := range row {
				rowLines = max(rowLines, len(pdf.SplitLines([]byte(d.tr(a)), colW)))
			}
			d.ensureSpace(float64(rowLines) * answerRowHeight)

			top := pdf.GetY()
			for col, a := range row {
				pdf.SetXY(colX[col], top)
				pdf.MultiCell(colW, answerRowHeight, d.tr(a), "", "L", false)
			}
			pdf.SetXY(left, top+float64(rowLines)*answerRowHeight+1.5)
		}
		pdf.Ln(4)
	}
}
