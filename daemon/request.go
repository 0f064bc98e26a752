package daemon

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/nixxel-company-limited/escpos-print-daemon/printer"
)

// Request actions.
const (
	actionPrint            = "print"
	actionCheckStatus      = "check_status"
	actionCalibrationText  = "print_calibration_text"
	actionCalibrationImage = "print_calibration_image"
)

// Calibration range defaults and bounds, matching the operator tooling.
// The width bounds also cap how much paper and memory one request can
// burn: an image strip allocates width*stripHeight pixels per candidate.
const (
	defaultTextStart  = 20
	defaultTextEnd    = 60
	defaultTextStep   = 2
	defaultImageStart = 450
	defaultImageEnd   = 700
	defaultImageStep  = 10

	textWidthMin  = 10
	textWidthMax  = 200
	textStepMin   = 1
	textStepMax   = 50
	imageWidthMin = 10
	imageWidthMax = 1500
	imageStepMin  = 5
	imageStepMax  = 100
)

// Request is one decoded daemon request.
type Request struct {
	Action  string
	Config  printer.Config
	Profile printer.Profile
	Tasks   []printer.Task

	// Calibration range.
	Start, End, Step int
}

type requestEnvelope struct {
	Action     string            `json:"action"`
	Connection json.RawMessage   `json:"connection"`
	Profile    *profileJSON      `json:"profile"`
	Tasks      []json.RawMessage `json:"tasks"`
	Start      *int              `json:"start"`
	End        *int              `json:"end"`
	Step       *int              `json:"step"`
}

type profileJSON struct {
	PrinterTotalChars int    `json:"printer_total_chars"`
	PaperWidthChars   int    `json:"paper_width_chars"`
	ImageWidthPx      int    `json:"image_width_px"`
	Encoding          string `json:"encoding"`
	CodepageID        *int   `json:"codepage_id"`
}

func decodeRequest(line []byte) (*Request, error) {
	var env requestEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("malformed request: %w", err)
	}

	req := &Request{Action: env.Action}

	if len(env.Connection) == 0 {
		return nil, fmt.Errorf("request is missing connection")
	}
	config, err := decodeConfig(env.Connection)
	if err != nil {
		return nil, err
	}
	req.Config = config

	switch env.Action {
	case actionPrint:
		if env.Profile == nil {
			return nil, fmt.Errorf("print request is missing profile")
		}
		profile, err := env.Profile.toProfile()
		if err != nil {
			return nil, err
		}
		req.Profile = profile

		for i, raw := range env.Tasks {
			task, err := decodeTask(raw)
			if err != nil {
				return nil, fmt.Errorf("task %d: %w", i, err)
			}
			req.Tasks = append(req.Tasks, task)
		}

	case actionCalibrationText:
		req.Start, req.End, req.Step = rangeOrDefault(env,
			defaultTextStart, defaultTextEnd, defaultTextStep)
		if err := validateRange(req, textWidthMin, textWidthMax, textStepMin, textStepMax); err != nil {
			return nil, err
		}

	case actionCalibrationImage:
		req.Start, req.End, req.Step = rangeOrDefault(env,
			defaultImageStart, defaultImageEnd, defaultImageStep)
		if err := validateRange(req, imageWidthMin, imageWidthMax, imageStepMin, imageStepMax); err != nil {
			return nil, err
		}
	}

	return req, nil
}

func validateRange(req *Request, widthMin, widthMax, stepMin, stepMax int) error {
	if req.Start < widthMin || req.Start > widthMax {
		return fmt.Errorf("start %d out of range [%d,%d]", req.Start, widthMin, widthMax)
	}
	if req.End < widthMin || req.End > widthMax {
		return fmt.Errorf("end %d out of range [%d,%d]", req.End, widthMin, widthMax)
	}
	if req.Step < stepMin || req.Step > stepMax {
		return fmt.Errorf("step %d out of range [%d,%d]", req.Step, stepMin, stepMax)
	}
	return nil
}

func rangeOrDefault(env requestEnvelope, start, end, step int) (int, int, int) {
	if env.Start != nil {
		start = *env.Start
	}
	if env.End != nil {
		end = *env.End
	}
	if env.Step != nil {
		step = *env.Step
	}
	return start, end, step
}

func (p *profileJSON) toProfile() (printer.Profile, error) {
	if p.PrinterTotalChars < 20 || p.PrinterTotalChars > 100 {
		return printer.Profile{}, fmt.Errorf("printer_total_chars %d out of range [20,100]", p.PrinterTotalChars)
	}
	if p.PaperWidthChars < 10 || p.PaperWidthChars > 100 {
		return printer.Profile{}, fmt.Errorf("paper_width_chars %d out of range [10,100]", p.PaperWidthChars)
	}
	if p.ImageWidthPx != 0 && (p.ImageWidthPx < 100 || p.ImageWidthPx > 3000) {
		return printer.Profile{}, fmt.Errorf("image_width_px %d out of range [100,3000]", p.ImageWidthPx)
	}
	encoding := p.Encoding
	if encoding == "" {
		encoding = "cp1251"
	}
	return printer.Profile{
		PrinterTotalChars: p.PrinterTotalChars,
		PaperWidthChars:   p.PaperWidthChars,
		ImageWidthPx:      p.ImageWidthPx,
		Encoding:          encoding,
		CodepageID:        p.CodepageID,
	}, nil
}

func decodeConfig(raw json.RawMessage) (printer.Config, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("malformed connection: %w", err)
	}

	switch head.Type {
	case "serial":
		c := struct {
			Port     string `json:"port"`
			Baudrate int    `json:"baudrate"`
			Bytesize int    `json:"bytesize"`
			Parity   string `json:"parity"`
			Stopbits int    `json:"stopbits"`
			Timeout  int    `json:"timeout"`
			DSRDTR   *bool  `json:"dsrdtr"`
		}{Baudrate: 9600, Bytesize: 8, Parity: "N", Stopbits: 1, Timeout: 1}
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("malformed serial connection: %w", err)
		}
		if c.Port == "" {
			return nil, fmt.Errorf("serial connection is missing port")
		}
		dsrdtr := true
		if c.DSRDTR != nil {
			dsrdtr = *c.DSRDTR
		}
		return printer.SerialConfig{
			Port:     c.Port,
			BaudRate: c.Baudrate,
			DataBits: c.Bytesize,
			Parity:   c.Parity,
			StopBits: c.Stopbits,
			Timeout:  time.Duration(c.Timeout) * time.Second,
			DSRDTR:   dsrdtr,
		}, nil

	case "network":
		c := struct {
			Host    string `json:"host"`
			Port    int    `json:"port"`
			Timeout int    `json:"timeout"`
		}{Port: 9100, Timeout: 10}
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("malformed network connection: %w", err)
		}
		if c.Host == "" {
			return nil, fmt.Errorf("network connection is missing host")
		}
		return printer.NetworkConfig{
			Host:    c.Host,
			Port:    c.Port,
			Timeout: time.Duration(c.Timeout) * time.Second,
		}, nil

	case "spool", "windows":
		var c struct {
			PrinterName string `json:"printer_name"`
		}
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("malformed spool connection: %w", err)
		}
		if c.PrinterName == "" {
			return nil, fmt.Errorf("spool connection is missing printer_name")
		}
		return printer.SpoolConfig{PrinterName: c.PrinterName}, nil

	case "null", "dummy":
		return printer.NullConfig{}, nil

	case "usb":
		var c struct {
			VendorID  uint16 `json:"vendor_id"`
			ProductID uint16 `json:"product_id"`
		}
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("malformed usb connection: %w", err)
		}
		return printer.USBConfig{VendorID: c.VendorID, ProductID: c.ProductID}, nil
	}

	return nil, fmt.Errorf("unknown connection type %q", head.Type)
}

func decodeTask(raw json.RawMessage) (printer.Task, error) {
	var head struct {
		Type  string `json:"type"`
		Align string `json:"align"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("malformed task: %w", err)
	}
	align := head.Align
	if align == "" {
		align = printer.AlignCenter
	}

	switch head.Type {
	case "text":
		var t struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		return printer.TextTask{Align: align, Value: t.Value}, nil

	case "table":
		t := struct {
			Data         [][]string `json:"data"`
			ColumnsRatio []float64  `json:"columns_ratio"`
		}{ColumnsRatio: []float64{0.7, 0.3}}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		return printer.TableTask{Align: align, Rows: t.Data, ColumnRatios: t.ColumnsRatio}, nil

	case "image":
		var t struct {
			Data string `json:"data"`
		}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		img, err := decodeBitmap(t.Data)
		if err != nil {
			return nil, err
		}
		return printer.ImageTask{Align: align, Bitmap: img}, nil

	case "pdf":
		// Pages arrive pre-rendered by the external PDF renderer, one
		// bitmap per page.
		var t struct {
			Pages []string `json:"pages"`
		}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		pages := make([]image.Image, 0, len(t.Pages))
		for i, data := range t.Pages {
			img, err := decodeBitmap(data)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", i, err)
			}
			pages = append(pages, img)
		}
		return printer.PdfTask{Align: align, Pages: pages}, nil

	case "feed":
		t := struct {
			Lines int `json:"lines"`
		}{Lines: 1}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		if t.Lines < 1 || t.Lines > 10 {
			return nil, fmt.Errorf("feed lines %d out of range [1,10]", t.Lines)
		}
		return printer.FeedTask{Lines: t.Lines}, nil

	case "cut":
		return printer.CutTask{}, nil

	case "raw":
		var t struct {
			HexData string `json:"hex_data"`
		}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		data, err := hex.DecodeString(strings.ReplaceAll(t.HexData, " ", ""))
		if err != nil {
			return nil, fmt.Errorf("malformed hex_data: %w", err)
		}
		return printer.RawTask{Data: data}, nil
	}

	return nil, fmt.Errorf("unknown task type %q", head.Type)
}

func decodeBitmap(data string) (image.Image, error) {
	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("malformed image data: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("unreadable image data: %w", err)
	}
	return img, nil
}
