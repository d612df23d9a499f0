package server

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/expenses"
	"github.com/joseph-ayodele/branch-expenses/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type expenseHandlers struct {
	svc    *expenses.Service
	export *export.Service
	logger *slog.Logger
}

func (h *expenseHandlers) create(c *fiber.Ctx) error {
	up, closeFn, err := receiptUpload(c)
	if err != nil {
		return err
	}
	defer closeFn()

	id, err := h.svc.Create(c.UserContext(), requestContext(c), formFrom(c), up)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(response{Success: true, Message: "Gasto registrado correctamente.", ID: &id})
}

func (h *expenseHandlers) update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	up, closeFn, err := receiptUpload(c)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := h.svc.Update(c.UserContext(), requestContext(c), id, formFrom(c), up); err != nil {
		return err
	}
	return c.JSON(response{Success: true, Message: "Gasto actualizado correctamente.", ID: &id})
}

func (h *expenseHandlers) remove(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.UserContext(), requestContext(c), id); err != nil {
		return err
	}
	return c.JSON(response{Success: true, Message: "Gasto eliminado correctamente.", ID: &id})
}

func (h *expenseHandlers) void(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Void(c.UserContext(), requestContext(c), id); err != nil {
		return err
	}
	return c.JSON(response{Success: true, Message: "Gasto anulado correctamente.", ID: &id})
}

func (h *expenseHandlers) get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	e, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(response{Success: true, ID: &id, Data: e})
}

func (h *expenseHandlers) report(c *fiber.Ctx) error {
	f, err := h.svc.Parser().ParseFilter(c.Query(expenses.FieldBranchID), c.Query(expenses.FieldDate))
	if err != nil {
		return err
	}
	rows, err := h.svc.Report(c.UserContext(), f)
	if err != nil {
		return err
	}
	total, err := h.svc.Count(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(response{Success: true, Data: rows, Total: &total})
}

func (h *expenseHandlers) exportXLSX(c *fiber.Ctx) error {
	f, err := h.svc.Parser().ParseFilter(c.Query(expenses.FieldBranchID), c.Query(expenses.FieldDate))
	if err != nil {
		return err
	}
	data, err := h.export.ExpensesXLSX(c.UserContext(), f)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Attachment(fmt.Sprintf("gastos_%s.xlsx", time.Now().Format("20060102")))
	return c.Send(data)
}

func formFrom(c *fiber.Ctx) expenses.Form {
	return expenses.Form{
		BranchID:      c.FormValue(expenses.FieldBranchID),
		ConceptID:     c.FormValue(expenses.FieldConceptID),
		Amount:        c.FormValue(expenses.FieldAmount),
		PaymentMethod: c.FormValue(expenses.FieldPaymentMethod),
		Description:   c.FormValue(expenses.FieldDescription),
		Observations:  c.FormValue(expenses.FieldObservations),
		Date:          c.FormValue(expenses.FieldDate),
		Folio:         c.FormValue(expenses.FieldFolio),
	}
}

// receiptUpload opens the optional receipt part. A request that is not multipart,
// or carries an empty file part, has no receipt.
func receiptUpload(c *fiber.Ctx) (*expenses.Upload, func(), error) {
	noop := func() {}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, nil
	}
	files := form.File[expenses.FieldReceipt]
	if len(files) == 0 || files[0].Filename == "" {
		return nil, noop, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open receipt upload: %w", err)
	}
	return &expenses.Upload{Filename: fh.Filename, Content: f}, closer(f), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, &common.ValidationError{
			Message: "Identificador inválido.",
			Fields:  map[string]string{"id": "Identificador inválido."},
		}
	}
	return int64(id), nil
}
