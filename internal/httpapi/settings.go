package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/settings"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/logger"
)

func (s *Server) getSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Settings())
}

// putSettings replaces the whole settings document. The panel always
// submits the full form, so a partial update surface is not needed.
func (s *Server) putSettings(c echo.Context) error {
	var cfg settings.AppSettings
	if err := c.Bind(&cfg); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return errJSON(c, http.StatusUnprocessableEntity, err.Error())
	}

	if err := s.store.SaveSettings(cfg); err != nil {
		return errJSON(c, http.StatusInternalServerError, "persist settings")
	}

	s.log.Info("settings updated",
		logger.String("academy", cfg.AcademyName),
		logger.Bool("allowCheckinWithOverdue", cfg.AllowCheckinWithOverdue))
	return c.JSON(http.StatusOK, cfg)
}
