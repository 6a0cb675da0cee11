package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/treebjjjapan/manager-dojo-marques/internal/syncdata"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/logger"
)

type exportResponse struct {
	Token  string `json:"token"`
	Bytes  int    `json:"bytes"`
	FitsQR bool   `json:"fitsQr"`
}

type importRequest struct {
	Token   string `json:"token"`
	Confirm bool   `json:"confirm"`
}

func (s *Server) exportSnapshot(c echo.Context) error {
	token, info, err := s.codec.Export()
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "export snapshot")
	}
	return c.JSON(http.StatusOK, exportResponse{
		Token:  token,
		Bytes:  info.Bytes,
		FitsQR: info.FitsQR,
	})
}

// exportSnapshotQR renders the current snapshot token as a QR PNG for
// camera-to-camera transfer between devices. Past the capacity of the
// largest QR symbol the caller must fall back to copying the text token.
func (s *Server) exportSnapshotQR(c echo.Context) error {
	token, info, err := s.codec.Export()
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "export snapshot")
	}
	if !info.FitsQR {
		return errJSON(c, http.StatusRequestEntityTooLarge,
			"snapshot too large for a QR code, use the text token")
	}

	png, err := qrcode.Encode(token, qrcode.Medium, 512)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "render qr")
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// importSnapshot replaces every collection on this device with the token's
// contents. The overwrite is destructive, so the request must carry an
// explicit confirm flag.
func (s *Server) importSnapshot(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if !req.Confirm {
		return errJSON(c, http.StatusBadRequest, "import overwrites local data, confirm required")
	}

	err := s.codec.Import(req.Token)
	switch {
	case errors.Is(err, syncdata.ErrEmptyToken):
		return errJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, syncdata.ErrBadToken):
		return errJSON(c, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		return errJSON(c, http.StatusInternalServerError, "import snapshot")
	}

	s.log.Info("snapshot imported", logger.TokenBytes(len(req.Token)))
	return c.JSON(http.StatusOK, map[string]any{"imported": true})
}
