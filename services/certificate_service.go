package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

const pdfRenderTimeout = 30 * time.Second

type certificateUploader interface {
	UploadCertificate(ctx context.Context, pdf []byte, owner string) (string, error)
}

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer func(ctx context.Context, html string) ([]byte, error)

type CertificateService struct {
	uploader certificateUploader
	render   PDFRenderer
}

func NewCertificateService(uploader certificateUploader, render PDFRenderer) *CertificateService {
	if render == nil {
		render = ChromePDF
	}
	return &CertificateService{uploader: uploader, render: render}
}

var certificateTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
body { font-family: Georgia, serif; text-align: center; padding: 80px; }
h1 { font-size: 42px; margin-bottom: 8px; }
.name { font-size: 32px; font-weight: bold; margin: 24px 0; }
.small { color: #555; font-size: 14px; }
</style></head><body>
<h1>Certificate of Completion</h1>
<p>This certifies that</p>
<p class="name">{{.Learner}}</p>
<p>completed the session <strong>{{.Skill}}</strong> ({{.Slot}})</p>
<p>taught by {{.Teacher}}</p>
<p class="small">{{.Date}}{{if .CollectibleID}} · on-chain collectible #{{.CollectibleID}}{{end}}</p>
</body></html>`))

type CertificateData struct {
	Learner       string
	Teacher       string
	Skill         string
	Slot          string
	Date          string
	CollectibleID uint64
}

func RenderCertificateHTML(data CertificateData) (string, error) {
	if data.Date == "" {
		data.Date = time.Now().Format("January 2, 2006")
	}
	var out bytes.Buffer
	if err := certificateTemplate.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Issue renders and uploads a completion certificate and returns its URL.
func (s *CertificateService) Issue(ctx context.Context, data CertificateData) (string, error) {
	html, err := RenderCertificateHTML(data)
	if err != nil {
		return "", fmt.Errorf("render certificate html: %w", err)
	}
	pdf, err := s.render(ctx, html)
	if err != nil {
		return "", fmt.Errorf("render certificate pdf: %w", err)
	}
	url, err := s.uploader.UploadCertificate(ctx, pdf, data.Learner)
	if err != nil {
		return "", fmt.Errorf("upload certificate: %w", err)
	}
	log.Info().Str("learner", data.Learner).Str("skill", data.Skill).Str("url", url).Msg("certificate issued")
	return url, nil
}

// ChromePDF prints html with a headless Chrome.
func ChromePDF(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, pdfRenderTimeout)
	defer cancelTimeout()

	var pdf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}
