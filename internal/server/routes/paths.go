package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/pathdoc/internal/backend"
	"github.com/any-hub/pathdoc/internal/server"
)

// RegisterPathRoutes 暴露路径声明、后端列表与会话切换接口。
func RegisterPathRoutes(app *fiber.App, registry *server.DocumentRegistry) {
	if app == nil || registry == nil {
		return
	}

	app.Get("/-/paths", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"paths": registry.PathNames()})
	})

	app.Get("/-/paths/:name", func(c fiber.Ctx) error {
		resolved, err := registry.Resolve(c.Params("name"))
		if err != nil {
			return renderError(c, err)
		}
		return c.JSON(encodeResolved(registry, resolved))
	})

	app.Get("/-/backends", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"backends": encodeBackends(backend.List(), registry.Env())})
	})

	app.Post("/-/session/enter", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"active": registry.EnterSession()})
	})

	app.Post("/-/session/exit", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"active": registry.ExitSession()})
	})
}

type backendPayload struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
	ReadOnly    bool     `json:"read_only"`
	Storage     string   `json:"storage"`
	Root        string   `json:"root,omitempty"`
}

func encodeBackends(descs []backend.Descriptor, env backend.Environment) []backendPayload {
	if len(descs) == 0 {
		return nil
	}
	result := make([]backendPayload, 0, len(descs))
	for _, desc := range descs {
		item := backendPayload{
			Name:        desc.Name,
			Aliases:     append([]string(nil), desc.Aliases...),
			Description: desc.Description,
			ReadOnly:    desc.ReadOnly,
			Storage:     string(desc.Storage),
		}
		if desc.Rooted && env != nil {
			item.Root = env.Root(desc.Kind)
		}
		result = append(result, item)
	}
	return result
}
