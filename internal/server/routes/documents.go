package routes

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/pathdoc/internal/backend"
	"github.com/any-hub/pathdoc/internal/document"
	"github.com/any-hub/pathdoc/internal/pathspec"
	"github.com/any-hub/pathdoc/internal/serializer"
	"github.com/any-hub/pathdoc/internal/server"
)

var codec serializer.Serializer = serializer.JSON{}

// RegisterDocumentRoutes 暴露 /-/documents 管理接口：查看、替换、读取、保存与重置文档。
func RegisterDocumentRoutes(app *fiber.App, registry *server.DocumentRegistry) {
	if app == nil || registry == nil {
		return
	}

	app.Get("/-/documents", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"documents": registry.List()})
	})

	app.Get("/-/documents/:name", func(c fiber.Ctx) error {
		return sendValue(c, registry, c.Params("name"), nil)
	})

	app.Put("/-/documents/:name", func(c fiber.Ctx) error {
		var value map[string]any
		if err := codec.Overwrite(string(c.Body()), &value); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":      "invalid_body",
				"message":    err.Error(),
				"request_id": server.RequestID(c),
			})
		}
		if value == nil {
			value = map[string]any{}
		}
		return sendValue(c, registry, c.Params("name"), func(doc *server.MapDocument) error {
			doc.SetValue(value)
			return nil
		})
	})

	app.Post("/-/documents/:name/load", func(c fiber.Ctx) error {
		return sendValue(c, registry, c.Params("name"), func(doc *server.MapDocument) error {
			return doc.Load()
		})
	})

	app.Post("/-/documents/:name/reset", func(c fiber.Ctx) error {
		return sendValue(c, registry, c.Params("name"), func(doc *server.MapDocument) error {
			doc.ResetToDefault()
			return nil
		})
	})

	app.Post("/-/documents/:name/save", func(c fiber.Ctx) error {
		name := c.Params("name")
		entry, ok := registry.Lookup(name)
		if !ok {
			return renderError(c, server.ErrDocumentNotFound)
		}
		pretty := entry.Config().Pretty
		if raw := strings.TrimSpace(c.Query("pretty")); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":      "invalid_pretty",
					"request_id": server.RequestID(c),
				})
			}
			pretty = parsed
		}

		var resolved pathspec.Resolved
		err := registry.Do(name, func(doc *server.MapDocument) error {
			if err := doc.Save(pretty); err != nil {
				return err
			}
			var err error
			resolved, err = doc.Resolve()
			return err
		})
		if err != nil {
			return renderError(c, err)
		}
		return c.JSON(fiber.Map{
			"saved":     true,
			"pretty":    pretty,
			"full_path": resolved.FullPath,
		})
	})

	app.Get("/-/documents/:name/path", func(c fiber.Ctx) error {
		var resolved pathspec.Resolved
		err := registry.Do(c.Params("name"), func(doc *server.MapDocument) error {
			var err error
			resolved, err = doc.Resolve()
			return err
		})
		if err != nil {
			return renderError(c, err)
		}
		return c.JSON(encodeResolved(registry, resolved))
	})
}

// sendValue 在文档锁内执行 mutate（可为空），随后在同一把锁内编码当前值。
func sendValue(c fiber.Ctx, registry *server.DocumentRegistry, name string, mutate func(*server.MapDocument) error) error {
	var text string
	err := registry.Do(name, func(doc *server.MapDocument) error {
		if mutate != nil {
			if err := mutate(doc); err != nil {
				return err
			}
		}
		var err error
		text, err = codec.ToText(doc.Value(), false)
		return err
	})
	if err != nil {
		return renderError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.SendString(text)
}

type resolvedPayload struct {
	pathspec.Resolved
	Root            string `json:"root,omitempty"`
	FileExists      bool   `json:"file_exists"`
	DirectoryExists bool   `json:"directory_exists"`
}

func encodeResolved(registry *server.DocumentRegistry, resolved pathspec.Resolved) resolvedPayload {
	payload := resolvedPayload{
		Resolved: resolved,
		Root:     resolved.Spec.Root(registry.Env()),
	}
	if backend.StorageOf(resolved.Spec.Backend) == backend.StorageFilesystem {
		payload.FileExists = resolved.Spec.FileExists(registry.Fs(), registry.Env())
		payload.DirectoryExists = resolved.Spec.DirectoryExists(registry.Fs(), registry.Env())
	}
	return payload
}

func renderError(c fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, server.ErrDocumentNotFound):
		status, code = fiber.StatusNotFound, "document_not_found"
	case errors.Is(err, server.ErrPathNotFound):
		status, code = fiber.StatusNotFound, "path_not_found"
	case errors.Is(err, document.ErrNotFound):
		status, code = fiber.StatusNotFound, "file_not_found"
	case errors.Is(err, document.ErrReadOnly):
		status, code = fiber.StatusConflict, "read_only_backend"
	case errors.Is(err, document.ErrUnresolvedPlatform):
		status, code = fiber.StatusUnprocessableEntity, "unresolved_platform"
	}
	return c.Status(status).JSON(fiber.Map{
		"error":      code,
		"message":    err.Error(),
		"request_id": server.RequestID(c),
	})
}
