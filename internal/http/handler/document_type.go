package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"brgydocs/internal/service"
)

type documentTypeBody struct {
	Name string          `json:"name" validate:"required,max=100"`
	Fee  decimal.Decimal `json:"fee"`
}

func (b documentTypeBody) input() service.DocumentTypeInput {
	return service.DocumentTypeInput{Name: b.Name, Fee: b.Fee}
}

// ListDocumentTypes returns the catalog ordered by name.
//
// @Summary  List document types
// @Tags     document-types
// @Produce  json
// @Router   /document-types [get]
func ListDocumentTypes(svc service.DocumentTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

func GetDocumentType(svc service.DocumentTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return invalidID(c)
		}
		dt, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(dt)
	}
}

// CreateDocumentType adds a catalog entry.
//
// @Summary  Create document type
// @Tags     document-types
// @Accept   json
// @Produce  json
// @Success  201 {object} model.DocumentType
// @Failure  409 {object} errorPayload
// @Router   /document-types [post]
func CreateDocumentType(svc service.DocumentTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body documentTypeBody
		if ok, err := bind(c, &body); !ok {
			return err
		}
		dt, err := svc.Create(c.UserContext(), actorOf(c), body.input())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dt)
	}
}

func UpdateDocumentType(svc service.DocumentTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return invalidID(c)
		}
		var body documentTypeBody
		if ok, err := bind(c, &body); !ok {
			return err
		}
		dt, err := svc.Update(c.UserContext(), actorOf(c), id, body.input())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(dt)
	}
}

// DeleteDocumentType is refused with 409 while requests reference the type.
//
// @Summary  Delete document type
// @Tags     document-types
// @Success  204
// @Failure  409 {object} errorPayload
// @Router   /document-types/{id} [delete]
func DeleteDocumentType(svc service.DocumentTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), actorOf(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
