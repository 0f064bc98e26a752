// Package daemon runs the line-oriented request loop of the print
// daemon: one JSON request per input line, one JSON response per output
// line, processed strictly one at a time.
package daemon

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/nixxel-company-limited/escpos-print-daemon/calibration"
	"github.com/nixxel-company-limited/escpos-print-daemon/printer"
)

// maxLineBytes bounds one request line. Image and PDF page payloads are
// base64 inlined, so lines can get big.
const maxLineBytes = 32 * 1024 * 1024

// Daemon wires the request stream to the printer registry.
type Daemon struct {
	registry *printer.Registry
	log      *zap.Logger
	in       io.Reader
	out      io.Writer
}

// New creates a daemon reading requests from in and writing responses
// to out.
func New(registry *printer.Registry, log *zap.Logger, in io.Reader, out io.Writer) *Daemon {
	if log == nil {
		log = zap.NewNop()
	}
	return &Daemon{registry: registry, log: log, in: in, out: out}
}

// Run processes requests until the input stream ends. Each request is
// fully executed before the next line is read.
func (d *Daemon) Run() error {
	scanner := bufio.NewScanner(d.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	d.log.Info("print daemon ready")
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		d.respond(d.dispatch(line))
	}
	return scanner.Err()
}

func (d *Daemon) respond(resp any) {
	data, err := json.Marshal(resp)
	if err != nil {
		d.log.Error("response marshal failed", zap.Error(err))
		return
	}
	data = append(data, '\n')
	if _, err := d.out.Write(data); err != nil {
		d.log.Error("response write failed", zap.Error(err))
	}
}

func (d *Daemon) dispatch(line []byte) any {
	req, err := decodeRequest(line)
	if err != nil {
		d.log.Warn("bad request", zap.Error(err))
		return errorResponse("Validation Error", err)
	}

	switch req.Action {
	case actionPrint:
		if err := d.registry.PrintJob(req.Config, req.Profile, req.Tasks); err != nil {
			d.log.Error("print job failed",
				zap.String("printer", req.Config.ResourceKey()), zap.Error(err))
			return errorResponse(faultKind(err), err)
		}
		return successResponse{Status: "success"}

	case actionCheckStatus:
		status, err := d.registry.CheckStatus(req.Config)
		if err != nil {
			return errorResponse(faultKind(err), err)
		}
		return statusResponse{Status: "success", Data: status}

	case actionCalibrationText:
		h, err := d.registry.Get(req.Config)
		if err != nil {
			return errorResponse(faultKind(err), err)
		}
		if err := calibration.Text(h, req.Start, req.End, req.Step); err != nil {
			h.Close()
			return errorResponse(faultKind(err), err)
		}
		return successResponse{Status: "success"}

	case actionCalibrationImage:
		h, err := d.registry.Get(req.Config)
		if err != nil {
			return errorResponse(faultKind(err), err)
		}
		if err := calibration.Image(h, req.Start, req.End, req.Step, nil); err != nil {
			h.Close()
			return errorResponse(faultKind(err), err)
		}
		return successResponse{Status: "success"}
	}

	return errorResponse("Unknown Request Type",
		fmt.Errorf("unknown action %q", req.Action))
}

// faultKind labels an error for the response envelope.
func faultKind(err error) string {
	var connErr *printer.ConnectError
	var ioFault *printer.IOFault
	switch {
	case errors.As(err, &connErr), errors.As(err, &ioFault):
		return "Printer Error"
	case errors.Is(err, printer.ErrUnsupportedTransport):
		return "Unsupported Transport"
	}
	return "System Error"
}

type successResponse struct {
	Status string `json:"status"`
}

type statusResponse struct {
	Status string             `json:"status"`
	Data   printer.StatusData `json:"data"`
}

type errResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func errorResponse(kind string, err error) errResponse {
	return errResponse{Status: "error", Error: kind, Message: err.Error()}
}
