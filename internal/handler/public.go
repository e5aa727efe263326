package handler

import (
	"net/http"

	"barba-negra-app/config"

	"github.com/gin-gonic/gin"
)

type PublicHandler struct{}

func (h *PublicHandler) GetSiteInfo(c *gin.Context) {
	c.JSON(http.StatusOK, config.AppConfig.Site)
}
