// Package certificate wraps the document primitives the certification
// pipeline calls: QR encoding of verification payloads and rendering of
// landscape, one-page-per-participant attestation documents.
package certificate

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

var ErrNothingToRender = errors.New("nothing to render")

// Data carries everything one certificate page displays.
type Data struct {
	ParticipantName string
	Entreprise      string
	Intitule        string
	Lieu            string
	DateDebut       time.Time
	DateFin         time.Time
	DateEmission    time.Time
	QRPayload       string
}

// EncodeQR produces a PNG image of the payload, scannable by any verifier.
func EncodeQR(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qrcode.Encode -> %w", err)
	}

	return png, nil
}

type Renderer struct {
	organisme string
}

func NewRenderer(organisme string) *Renderer {
	return &Renderer{
		organisme: organisme,
	}
}

// Render produces a single-page certificate document.
func (r *Renderer) Render(data Data) ([]byte, error) {
	doc, pageErrs, err := r.RenderBatch([]Data{data})
	if err != nil {
		return nil, err
	}
	if pageErr, ok := pageErrs[0]; ok {
		return nil, pageErr
	}

	return doc, nil
}

// RenderBatch produces one landscape A4 page per item, merged into a single
// document. A failing item is recorded in the returned map and does not stop
// the remaining pages from being produced.
func (r *Renderer) RenderBatch(items []Data) ([]byte, map[int]error, error) {
	if len(items) == 0 {
		return nil, nil, ErrNothingToRender
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageErrs := make(map[int]error)
	rendered := 0

	for i, item := range items {
		png, err := EncodeQR(item.QRPayload)
		if err != nil {
			pageErrs[i] = err
			continue
		}

		r.addPage(pdf, tr, item, png, i)
		rendered++
	}

	if rendered == 0 {
		return nil, pageErrs, ErrNothingToRender
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, pageErrs, fmt.Errorf("pdf.Output -> %w", err)
	}

	return buf.Bytes(), pageErrs, nil
}

func (r *Renderer) addPage(pdf *gofpdf.Fpdf, tr func(string) string, item Data, qrPNG []byte, idx int) {
	const pageW, pageH = 297.0, 210.0

	pdf.AddPage()

	pdf.SetLineWidth(0.8)
	pdf.Rect(10, 10, pageW-20, pageH-20, "D")

	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetY(32)
	pdf.CellFormat(0, 12, tr("ATTESTATION DE FORMATION"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetY(52)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s certifie que", r.organisme)), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, tr(item.ParticipantName), "", 1, "C", false, 0, "")

	if item.Entreprise != "" {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.CellFormat(0, 8, tr(item.Entreprise), "", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 12)
	pdf.Ln(4)
	pdf.CellFormat(0, 8, tr("a suivi la formation"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(item.Intitule), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	period := fmt.Sprintf("du %s au %s", item.DateDebut.Format("02/01/2006"), item.DateFin.Format("02/01/2006"))
	if item.DateDebut.Equal(item.DateFin) {
		period = fmt.Sprintf("le %s", item.DateDebut.Format("02/01/2006"))
	}
	if item.Lieu != "" {
		period += tr(fmt.Sprintf(" à %s", item.Lieu))
	}
	pdf.CellFormat(0, 8, tr(period), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetY(pageH - 45)
	pdf.SetX(20)
	issued := fmt.Sprintf("Fait le %s", item.DateEmission.Format("02/01/2006"))
	pdf.CellFormat(120, 7, tr(issued), "", 1, "L", false, 0, "")
	pdf.SetX(20)
	pdf.CellFormat(120, 7, tr(r.organisme), "", 1, "L", false, 0, "")

	imgName := fmt.Sprintf("qr-%d", idx)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, pageW-55, pageH-60, 35, 35, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(pageW-60, pageH-24)
	pdf.CellFormat(45, 4, tr("Scannez pour vérifier"), "", 0, "C", false, 0, "")
}
