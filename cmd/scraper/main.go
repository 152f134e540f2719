// Command scraper downloads the daily "Gilts in Issue" workbook from the
// UK Debt Management Office website.
//
// The DMO site sits behind bot protection, so the primary path drives a
// real browser with chromedp: navigate to the report page, dismiss the
// cookie banner, click the Excel export control and wait for the download
// event. A plain-HTTP fallback with browser-like headers is attempted
// when the browser path fails.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"

	"giltscli/internal/app"
	"giltscli/internal/config"
	"giltscli/internal/files"
	"giltscli/internal/infrastructure"
)

func main() {
	dateStr := flag.String("date", "", "report date (DD/MM/YYYY); defaults to yesterday")
	outDir := flag.String("out", "", "directory to save the workbook (defaults to data/downloads)")
	headless := flag.Bool("headless", true, "run browser headless")
	format := flag.Bool("format", false, "convert the downloaded workbook to CSV")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		fmt.Printf("Error: Failed to initialize paths: %v\n", err)
		os.Exit(1)
	}

	if *outDir == "" {
		*outDir = paths.DownloadsDir
	}

	if err := paths.EnsureDirectories(); err != nil {
		fmt.Printf("Error: Failed to create required directories: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("scraper.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	// Reports are published for the previous business day.
	reportDate := time.Now().AddDate(0, 0, -1)
	if *dateStr != "" {
		reportDate, err = time.Parse("02/01/2006", *dateStr)
		if err != nil {
			logger.Error("invalid --date value", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	destPath := filepath.Join(*outDir, files.WorkbookName(reportDate))

	logger.Info("Gilts in Issue scraper starting",
		slog.String("report_date", reportDate.Format("2006-01-02")),
		slog.String("destination", destPath),
		slog.Bool("headless", *headless))

	if files.FileExists(destPath) {
		logger.Info("Workbook already downloaded, skipping", slog.String("file", destPath))
	} else {
		if err := downloadWithBrowser(cfg.Scraper, *headless, destPath, logger); err != nil {
			logger.Warn("Browser download failed, trying HTTP fallback",
				slog.String("error", err.Error()))

			if err := downloadWithHTTP(cfg.Scraper, reportDate, destPath, logger); err != nil {
				logger.Error("Download failed", slog.String("error", err.Error()))
				fmt.Println("Download failed. Please try manual download:")
				fmt.Printf("1. Visit: %s\n", cfg.Scraper.ReportURL)
				fmt.Printf("2. Enter date: %s\n", reportDate.Format("02/01/2006"))
				fmt.Println("3. Click the Excel button")
				os.Exit(1)
			}
		}

		if looksLikeHTML(destPath) {
			logger.Error("Downloaded file is HTML, not a workbook; bot protection may still be active",
				slog.String("file", destPath))
			if err := os.Remove(destPath); err != nil {
				logger.Warn("Failed to remove HTML download", slog.String("error", err.Error()))
			}
			os.Exit(1)
		}

		logger.Info("Workbook downloaded", slog.String("file", destPath))
		fmt.Printf("Successfully downloaded Gilts data to: %s\n", destPath)
	}

	if *format {
		csvPath, err := app.Convert(destPath, paths.ExportsDir, time.Now)
		if err != nil {
			logger.Error("Conversion failed", slog.String("error", err.Error()))
			fmt.Println("CSV formatting failed.")
			os.Exit(1)
		}
		logger.Info("Conversion complete", slog.String("csv_path", csvPath))
		fmt.Printf("Formatted CSV file: %s\n", csvPath)
	}
}

// dismissCookieBannerJS clicks the first recognizable cookie-consent
// control on the page and returns which one it hit, or "".
const dismissCookieBannerJS = `(() => {
	const ids = ['#onetrust-accept-btn-handler', '.cookie-accept-button', '.accept-cookies'];
	for (const sel of ids) {
		const el = document.querySelector(sel);
		if (el) { el.click(); return sel; }
	}
	const wanted = ['accept', 'accept all', 'accept cookies', 'i accept', 'ok', 'agree'];
	for (const b of document.querySelectorAll('button')) {
		const t = (b.innerText || '').trim().toLowerCase();
		if (wanted.includes(t)) { b.click(); return t; }
	}
	return '';
})()`

// clickExcelControlJS clicks the Excel export control and returns its
// label, or "" when no such control exists on the page.
const clickExcelControlJS = `(() => {
	const candidates = document.querySelectorAll('button, input[type="button"], input[type="submit"], a');
	for (const el of candidates) {
		const t = (el.innerText || el.value || '').trim().toLowerCase();
		if (t.includes('excel')) { el.click(); return t; }
	}
	return '';
})()`

// downloadWithBrowser drives a headless Chrome through the report page
// and captures the workbook via the browser download event.
func downloadWithBrowser(cfg config.ScraperConfig, headless bool, destPath string, logger *slog.Logger) error {
	tmpDir, err := os.MkdirTemp("", "gilts-download-*")
	if err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1280, 800),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	ctx, cancel := context.WithTimeout(browserCtx, cfg.DownloadTimeout)
	defer cancel()

	downloaded := make(chan string, 1)
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		if progress, ok := ev.(*browser.EventDownloadProgress); ok {
			if progress.State == browser.DownloadProgressStateCompleted {
				select {
				case downloaded <- progress.GUID:
				default:
				}
			}
		}
	})

	var clicked string
	err = chromedp.Run(ctx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(tmpDir).
			WithEventsEnabled(true),
		chromedp.Navigate(cfg.ReportURL),
		chromedp.Sleep(politeDelay()),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var hit string
			if err := chromedp.Evaluate(dismissCookieBannerJS, &hit).Do(ctx); err != nil {
				return err
			}
			if hit != "" {
				logger.Info("Dismissed cookie banner", slog.String("control", hit))
				return chromedp.Sleep(politeDelay()).Do(ctx)
			}
			return nil
		}),
		chromedp.Evaluate(clickExcelControlJS, &clicked),
	)
	// Clicking a download link aborts the in-page navigation; that is
	// expected and the download still proceeds.
	if err != nil && !strings.Contains(err.Error(), "net::ERR_ABORTED") {
		return fmt.Errorf("browser automation failed: %w", err)
	}
	if clicked == "" {
		return fmt.Errorf("could not find Excel export control on %s", cfg.ReportURL)
	}
	logger.Info("Clicked Excel export control", slog.String("control", clicked))

	select {
	case guid := <-downloaded:
		return files.MoveFile(filepath.Join(tmpDir, guid), destPath)
	case <-ctx.Done():
		return fmt.Errorf("download did not complete within %s", cfg.DownloadTimeout)
	}
}

// downloadWithHTTP posts the report form directly, with a cookie jar and
// browser-like headers. Used when the browser path is unavailable.
func downloadWithHTTP(cfg config.ScraperConfig, reportDate time.Time, destPath string, logger *slog.Logger) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	client := &http.Client{Jar: jar, Timeout: cfg.DownloadTimeout}

	// Hit the report page first to pick up session cookies.
	req, err := http.NewRequest(http.MethodGet, cfg.ReportURL, nil)
	if err != nil {
		return err
	}
	setBrowserHeaders(req, cfg.UserAgent, "")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to access report page: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	time.Sleep(politeDelay())

	form := url.Values{
		"reportCode": {"D1A"},
		"date":       {reportDate.Format("02/01/2006")},
		"format":     {"Excel"},
	}

	req, err = http.NewRequest(http.MethodPost, cfg.ExcelURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	setBrowserHeaders(req, cfg.UserAgent, cfg.ReportURL)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err = client.Do(req)
	if err != nil {
		return fmt.Errorf("excel download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status for %s: %s", cfg.ExcelURL, resp.Status)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create file %s: %w", destPath, err)
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return fmt.Errorf("write file %s: %w", destPath, err)
	}

	logger.Info("File downloaded via HTTP fallback",
		slog.String("file", filepath.Base(destPath)),
		slog.Int64("size_bytes", written))

	return nil
}

func setBrowserHeaders(req *http.Request, userAgent, referer string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
}

// politeDelay returns a short randomized pause between site interactions.
func politeDelay() time.Duration {
	return time.Duration(1500+rand.Intn(1500)) * time.Millisecond
}

// looksLikeHTML sniffs the start of the file for an HTML document, the
// signature of a bot-protection page saved with a spreadsheet extension.
func looksLikeHTML(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	if n == 0 {
		return false
	}

	head := bytes.ToLower(bytes.TrimSpace(buf[:n]))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
