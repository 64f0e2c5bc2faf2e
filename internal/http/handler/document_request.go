package handler

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"brgydocs/internal/http/middleware"
	"brgydocs/internal/model"
	"brgydocs/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type createRequestBody struct {
	ResidentID      int64            `json:"resident_id" validate:"required,gt=0"`
	DocumentTypeID  int64            `json:"document_type_id" validate:"required,gt=0"`
	Purpose         string           `json:"purpose" validate:"required,max=255"`
	PaymentMethod   string           `json:"payment_method" validate:"omitempty,oneof=cash gcash free"`
	Amount          *decimal.Decimal `json:"amount"`
	ReferenceNumber *string          `json:"reference_number" validate:"omitempty,max=64"`
}

type historyResponse struct {
	Data []model.AuditEntry `json:"data"`
}

type declineBody struct {
	Reason string `json:"reason" validate:"max=500"`
}

type statusBody struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"required,max=500"`
}

func actorOf(c *fiber.Ctx) model.Actor {
	act, _ := middleware.ActorFrom(c)
	return act
}

func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

// listQuery parses the queue filters. When ok is false the 400 response has been
// written and the handler returns err as is, the same contract as bind.
func listQuery(c *fiber.Ctx) (q service.ListQuery, ok bool, err error) {
	if q.Limit, err = strconv.Atoi(c.Query("limit", "10")); err != nil {
		return q, false, writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	if q.Offset, err = strconv.Atoi(c.Query("offset", "0")); err != nil {
		return q, false, writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}
	if raw := c.Query("document_type_id"); raw != "" {
		if q.DocumentTypeID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return q, false, writeError(c, fiber.StatusBadRequest, "INVALID_DOCUMENT_TYPE_ID", "invalid document_type_id")
		}
	}
	q.Status = c.Query("status")
	return q, true, nil
}

// CreateRequest files a new document request.
//
// @Summary  Create document request
// @Tags     document-requests
// @Accept   json
// @Produce  json
// @Success  201 {object} model.RequestView
// @Failure  400 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Router   /document-requests [post]
func CreateRequest(svc service.DocumentRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body createRequestBody
		if ok, err := bind(c, &body); !ok {
			return err
		}
		view, err := svc.Create(c.UserContext(), actorOf(c), service.CreateInput{
			ResidentID:      body.ResidentID,
			DocumentTypeID:  body.DocumentTypeID,
			Purpose:         body.Purpose,
			PaymentMethod:   body.PaymentMethod,
			Amount:          body.Amount,
			ReferenceNumber: body.ReferenceNumber,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// ListRequests is the staff queue with limit & offset.
//
// @Summary  List document requests
// @Tags     document-requests
// @Produce  json
// @Param    document_type_id query int    false "filter by document type"
// @Param    status           query string false "filter by status"
// @Param    limit            query int    false "page size (max 100)"
// @Param    offset           query int    false "page offset"
// @Success  200 {object} service.ListResult
// @Router   /document-requests [get]
func ListRequests(svc service.DocumentRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, ok, err := listQuery(c)
		if !ok {
			return err
		}
		res, err := svc.List(c.UserContext(), q)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ExportRequests streams the filtered queue as an xlsx workbook. limit and offset are ignored.
//
// @Summary  Export document requests
// @Tags     document-requests
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router   /document-requests/export [get]
func ExportRequests(svc service.DocumentRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, ok, err := listQuery(c)
		if !ok {
			return err
		}
		var buf bytes.Buffer
		if err := svc.Export(c.UserContext(), q, &buf); err != nil {
			return writeServiceError(c, err)
		}
		c.Attachment("document-requests.xlsx")
		c.Set(fiber.HeaderContentType, xlsxContentType)
		return c.Send(buf.Bytes())
	}
}

// GetRequest returns one request with its payments.
//
// @Summary  Get document request
// @Tags     document-requests
// @Produce  json
// @Param    id path int true "document request id"
// @Success  200 {object} model.RequestView
// @Failure  404 {object} errorPayload
// @Router   /document-requests/{id} [get]
func GetRequest(svc service.DocumentRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return invalidID(c)
		}
		view, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// RequestHistory returns the audit trail, oldest first.
//
// @Summary  Document request history
// @Tags     document-requests
// @Produce  json
// @Param    id path int true "document request id"
// @Success  200 {object} historyResponse
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /document-requests/{id}/history [get]
func RequestHistory(svc service.DocumentRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return invalidID(c)
		}
		entries, err := svc.History(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(historyResponse{Data: entries})
	}
}

type transitionFunc func(c *fiber.Ctx, id int64) (*model.RequestView, error)

func transition(fn transitionFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return invalidID(c)
		}
		view, err := fn(c, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// AcceptRequest moves a pending request to on process.
//
// @Summary  Accept document request
// @Tags     document-requests
// @Param    id path int true "document request id"
// @Success  200 {object} model.RequestView
// @Failure  400 {object} errorPayload
// @Router   /document-requests/{id}/accept [put]
func AcceptRequest(svc service.DocumentRequestService) fiber.Handler {
	return transition(func(c *fiber.Ctx, id int64) (*model.RequestView, error) {
		return svc.Accept(c.UserContext(), actorOf(c), id)
	})
}

// MarkReady moves an on process request to ready for pick-up.
//
// @Summary  Mark document request ready
// @Tags     document-requests
// @Param    id path int true "document request id"
// @Success  200 {object} model.RequestView
// @Router   /document-requests/{id}/ready [put]
func MarkReady(svc service.DocumentRequestService) fiber.Handler {
	return transition(func(c *fiber.Ctx, id int64) (*model.RequestView, error) {
		return svc.MarkReady(c.UserContext(), actorOf(c), id)
	})
}

// DeclineRequest declines a pending request with an optional reason.
//
// @Summary  Decline document request
// @Tags     document-requests
// @Param    id path int true "document request id"
// @Success  200 {object} model.RequestView
// @Router   /document-requests/{id}/decline [put]
func DeclineRequest(svc service.DocumentRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body declineBody
		if ok, err := bind(c, &body); !ok {
			return err
		}
		return transition(func(c *fiber.Ctx, id int64) (*model.RequestView, error) {
			return svc.Decline(c.UserContext(), actorOf(c), id, body.Reason)
		})(c)
	}
}

// UpdateStatus is the administrative override.
//
// @Summary  Override document request status
// @Tags     document-requests
// @Param    id path int true "document request id"
// @Success  200 {object} model.RequestView
// @Router   /document-requests/{id}/status [put]
func UpdateStatus(svc service.DocumentRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body statusBody
		if ok, err := bind(c, &body); !ok {
			return err
		}
		return transition(func(c *fiber.Ctx, id int64) (*model.RequestView, error) {
			return svc.UpdateStatus(c.UserContext(), actorOf(c), id, body.Status, body.Reason)
		})(c)
	}
}

// PrintRequest renders the QR artifact and returns links for the print dialog.
//
// @Summary  Print document request
// @Tags     document-requests
// @Param    id path int true "document request id"
// @Success  200 {object} service.PrintResult
// @Router   /document-requests/{id}/print [post]
func PrintRequest(svc service.DocumentRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return invalidID(c)
		}
		res, err := svc.Print(c.UserContext(), actorOf(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// RequestQRCode serves the release QR code as a PNG.
//
// @Summary  Release QR code
// @Tags     document-requests
// @Produce  png
// @Param    id path int true "document request id"
// @Router   /document-requests/{id}/qrcode [get]
func RequestQRCode(svc service.DocumentRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return invalidID(c)
		}
		png, err := svc.QRCode(c.UserContext(), actorOf(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "image/png")
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Send(png)
	}
}
