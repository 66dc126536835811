package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/riderhub/riderhub-backend/api/middleware"
	"github.com/riderhub/riderhub-backend/api/responses"
	"github.com/riderhub/riderhub-backend/api/validators"
	productsvc "github.com/riderhub/riderhub-backend/internal/products"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/logger"
	"github.com/riderhub/riderhub-backend/pkg/types"
)

const missingFieldsMessage = "Missing required fields"

// CreateProduct accepts a multipart form with the product fields and an
// image file. The authenticated user becomes the supplier.
func CreateProduct(svc productsvc.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product")
			return
		}
		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		form, err := validators.ParseMultipart(w, r, maxUploadBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		name, okName := form.Value("name")
		description, _ := form.Value("description")
		rawPrice, okPrice := form.Value("price")
		rawCategory, okCategory := form.Value("category")
		rawStock, okStock := form.Value("stockQuantity")
		file, header, err := form.File("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if file != nil {
			defer file.Close()
		}
		if !okName || !okPrice || !okCategory || !okStock || file == nil {
			responses.WriteMessage(w, http.StatusBadRequest, pkgerrors.CodeValidation, missingFieldsMessage)
			return
		}

		input := productsvc.CreateProductInput{
			Name:        name,
			Description: description,
			SupplierID:  userID,
			Image:       &productsvc.ImageUpload{Filename: header.Filename, Body: file},
		}
		if input.Price, err = parsePrice(rawPrice); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Category, err = parseCategory(rawCategory); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.StockQuantity, err = parseStock(rawStock); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, product)
	}
}

func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var filter productsvc.ListFilter
		if filter.Category, err = queryEnum(r, "category", parseCategory); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.SupplierID, err = validators.ParseQueryID(r, "supplierId"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg)
		if !ok {
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// SearchProducts takes the criteria as a JSON body.
func SearchProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var query productsvc.SearchQuery
		if err := validators.DecodeJSONBody(r, &query); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if query.Category != nil {
			category, err := parseCategory(string(*query.Category))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			query.Category = &category
		}
		page, err := svc.Search(r.Context(), query, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

type updateProductRequest struct {
	Name          *string      `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string      `json:"description"`
	Price         *types.Money `json:"price"`
	Category      *string      `json:"category"`
	StockQuantity *int         `json:"stockQuantity" validate:"omitempty,min=0"`
}

// UpdateProduct accepts either JSON or a multipart form. Only the multipart
// form can replace the image.
func UpdateProduct(svc productsvc.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg)
		if !ok {
			return
		}

		var (
			input productsvc.UpdateProductInput
			err   error
		)
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			form, perr := validators.ParseMultipart(w, r, maxUploadBytes)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, perr)
				return
			}
			file, header, ferr := form.File("image")
			if ferr != nil {
				responses.WriteError(r.Context(), logg, w, ferr)
				return
			}
			if file != nil {
				defer file.Close()
				input.Image = &productsvc.ImageUpload{Filename: header.Filename, Body: file}
			}
			input, err = updateFromForm(form, input)
		} else {
			var body updateProductRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input, err = body.toInput()
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDeleted(w, id)
	}
}

func (b updateProductRequest) toInput() (productsvc.UpdateProductInput, error) {
	in := productsvc.UpdateProductInput{
		Name:          b.Name,
		Description:   b.Description,
		Price:         b.Price,
		StockQuantity: b.StockQuantity,
	}
	if b.Category != nil {
		category, err := parseCategory(*b.Category)
		if err != nil {
			return in, err
		}
		in.Category = &category
	}
	return in, nil
}

func updateFromForm(form *validators.MultipartForm, in productsvc.UpdateProductInput) (productsvc.UpdateProductInput, error) {
	if v, ok := form.Value("name"); ok {
		in.Name = &v
	}
	if form.Has("description") {
		v, _ := form.Value("description")
		in.Description = &v
	}
	if v, ok := form.Value("price"); ok {
		price, err := parsePrice(v)
		if err != nil {
			return in, err
		}
		in.Price = &price
	}
	if v, ok := form.Value("category"); ok {
		category, err := parseCategory(v)
		if err != nil {
			return in, err
		}
		in.Category = &category
	}
	if v, ok := form.Value("stockQuantity"); ok {
		stock, err := parseStock(v)
		if err != nil {
			return in, err
		}
		in.StockQuantity = &stock
	}
	return in, nil
}

func parsePrice(raw string) (types.Money, error) {
	price, err := types.ParseMoney(raw)
	if err != nil {
		msg := "price must be a number"
		if errors.Is(err, types.ErrAmountPrecision) || errors.Is(err, types.ErrAmountRange) {
			msg = "price " + strings.TrimPrefix(err.Error(), "amount ")
		}
		return types.Money{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg)
	}
	return price, nil
}

// Categories are matched case-insensitively so "Helmet" and "helmet" agree.
func parseCategory(raw string) (enums.ProductCategory, error) {
	category, err := enums.ParseProductCategory(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
			WithDetails(map[string]any{"allowed": enums.ProductCategoryValues()})
	}
	return category, nil
}

func parseStock(raw string) (int, error) {
	stock, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "stockQuantity must be an integer")
	}
	return stock, nil
}
