// receiptd is a thin HTTP upload endpoint wrapping the OCR + receipt
// interpreter pipeline: POST a receipt photo, get back the reconciled
// receipt.Receipt as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"expense-tracker/src/pkg/config"
	echomw "expense-tracker/src/pkg/echo-middleware"
	"expense-tracker/src/pkg/ocr"
	"expense-tracker/src/pkg/receipt"
)

func main() {
	config.CheckIfEnvVarsPresent(echomw.EnvIntakeBearerToken)

	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")
	outputDirPath := flag.String("out", "./out", "Directory where uploaded images and pipeline artifacts are stored.")
	language := flag.String("language", "eng+spa", "Tesseract language string passed to the OCR pipeline.")

	flag.Parse()
	config.InitializeConfig(*configPath)
	echomw.InitializeConfig(nil)
	echomw.UptdateRateLimits(echomw.Cfg.MiddlewareRateLimit, echomw.Cfg.MiddlewareBurst)

	e := echo.New()
	e.Use(echomw.RouteAccessLoggerMiddleware)
	e.Use(echomw.RateLimiterMiddleware)

	group := e.Group("")
	group.Use(echomw.RequireBearerToken)
	group.POST("/receipts", uploadHandler(*outputDirPath, *language))

	address := fmt.Sprintf("%s:%d", echomw.Cfg.Address, echomw.Cfg.Port)
	tl.Log(tl.Notice, palette.BlueBold, "%s on '%s'", "Starting receiptd", address)

	if startErr := e.Start(address); startErr != nil && startErr != http.ErrServerClosed {
		tl.Log(tl.Error, palette.RedBold, "receiptd exited: '%s'", startErr)
		os.Exit(1)
	}
}

// uploadHandler accepts a multipart form with a single "image" file field,
// runs it through the OCR + receipt interpreter pipeline, and returns the
// reconciled receipt.Receipt as JSON.
func uploadHandler(outputDirPath string, language string) echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, formErr := c.FormFile("image")
		if formErr != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing 'image' form file"})
		}

		tmpPath, saveErr := saveUploadedFile(fileHeader)
		if saveErr != nil {
			tl.Log(tl.Error, palette.RedBold, "Failed to save uploaded file: '%s'", saveErr)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to save upload"})
		}
		defer func() {
			_ = os.Remove(tmpPath)
		}()

		runDirPath, processErr := ocr.ProcessImage(tmpPath, outputDirPath, language)
		if processErr != nil {
			tl.Log(tl.Error, palette.RedBold, "Failed to process uploaded receipt: '%s'", processErr)
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "failed to process receipt image"})
		}

		parsed, loadErr := loadReceiptJSON(runDirPath)
		if loadErr != nil {
			tl.Log(tl.Error, palette.RedBold, "Failed to load reconciled receipt: '%s'", loadErr)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load reconciled receipt"})
		}

		return c.JSON(http.StatusOK, parsed)
	}
}

func saveUploadedFile(fileHeader *multipart.FileHeader) (tmpPath string, e *xerr.Error) {
	src, openErr := fileHeader.Open()
	if openErr != nil {
		return "", xerr.NewError(openErr, "open uploaded file", fileHeader.Filename)
	}
	defer func() {
		_ = src.Close()
	}()

	tmpFile, createErr := os.CreateTemp("", "receiptd-upload-*"+filepath.Ext(fileHeader.Filename))
	if createErr != nil {
		return "", xerr.NewError(createErr, "create temp file for upload", fileHeader.Filename)
	}
	defer func() {
		_ = tmpFile.Close()
	}()

	if _, copyErr := io.Copy(tmpFile, src); copyErr != nil {
		return "", xerr.NewError(copyErr, "write uploaded file to disk", fileHeader.Filename)
	}

	return tmpFile.Name(), nil
}

func loadReceiptJSON(runDirPath string) (parsed receipt.Receipt, e *xerr.Error) {
	receiptPath := filepath.Join(runDirPath, "receipt.json")

	receiptBytes, readErr := os.ReadFile(receiptPath)
	if readErr != nil {
		return parsed, xerr.NewError(readErr, "read receipt.json", receiptPath)
	}

	if unmarshalErr := json.Unmarshal(receiptBytes, &parsed); unmarshalErr != nil {
		return parsed, xerr.NewError(unmarshalErr, "unmarshal receipt.json", receiptPath)
	}

	return parsed, nil
}
