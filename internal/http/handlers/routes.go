package handlers

import (
	"shopadmin/internal/app"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// SetupRoutes sets up all API routes.
func SetupRoutes(api *echo.Group, services *app.Services, log zerolog.Logger) {
	productHandler := NewProductHandler(services.Controller, log)
	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.POST("/refresh", productHandler.Refresh)
	products.PUT("/filter", productHandler.SetFilter)
	products.GET("/:id/edit", productHandler.Edit)
	products.DELETE("/:id", productHandler.Delete)

	draft := api.Group("/draft")
	draft.GET("", productHandler.GetDraft)
	draft.PUT("", productHandler.UpdateDraft)
	draft.POST("/new", productHandler.NewDraft)
	draft.POST("/files", productHandler.AddFiles)
	draft.DELETE("/files/:index", productHandler.RemoveFile)
	draft.POST("/tags", productHandler.AddTag)
	draft.DELETE("/tags", productHandler.RemoveTag)
	draft.POST("/save", productHandler.SaveDraft)
	draft.POST("/close", productHandler.CloseDraft)

	refHandler := NewRefHandler(services.Controller)
	refs := api.Group("/refs")
	refs.POST("/refresh", refHandler.Refresh)
	refs.GET("/categories", refHandler.Categories)
	refs.GET("/brands", refHandler.Brands)

	importHandler := NewImportHandler(services.Importer, services.Store.TemplateURL(), log)
	imports := api.Group("/import")
	imports.POST("/file", importHandler.SelectFile)
	imports.DELETE("/file", importHandler.ClearSelection)
	imports.POST("/submit", importHandler.Submit)
	imports.GET("/status", importHandler.Status)
	imports.POST("/reset", importHandler.Reset)
	imports.GET("/template", importHandler.Template)
	imports.GET("/template/url", importHandler.TemplateURL)

	alertHandler := NewAlertHandler(services.Presenter)
	alerts := api.Group("/alerts")
	alerts.GET("", alertHandler.List)
	alerts.POST("/dismiss-inline", alertHandler.DismissInline)
}
