package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rmaksimov/autoservice/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// If err can be unwrapped into *sqlerr.Error, its Code is returned;
// otherwise Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into our
// custom sqlerr.Error, mapping SQLSTATE and severity onto enums.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode creates consistent application error codes from DB errors.
//
// Output format: <DOMAIN>_<ACTION>, e.g. clients + UniqueViolation =>
// CLIENT_ALREADY_EXISTS. These codes are meant for machines (frontend
// logic), not humans.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	// Naive singularization: "CLIENTS" -> "CLIENT".
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces an end-user-facing error message.
// This message is intended for clients/UI, not for logs.
func formatUserFriendlyMessage(sqlErr *Error) string {
	switch sqlErr.Code {
	case ForeignKeyViolation:
		// Name the referenced entity, not the table the insert hit:
		// inserting into cars with a bad client_id should say "client".
		entityName := referencedEntityName(sqlErr.ConstraintName, sqlErr.TableName)
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		entityName := entityNameFromTable(sqlErr.TableName)
		column := extractColumnForUniqueViolation(sqlErr.ConstraintName, sqlErr.TableName)
		if column != "" {
			return fmt.Sprintf("A %s with this %s already exists", entityName, humanizeText(column))
		}
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// entityNameFromTable derives a human entity name from a table name,
// singularized if it ends with "s". Falls back to "record".
func entityNameFromTable(tableName string) string {
	if tableName == "" {
		return "record"
	}
	entity := tableName
	if strings.HasSuffix(entity, "s") && len(entity) > 1 {
		entity = entity[:len(entity)-1]
	}
	return strings.ToLower(humanizeText(entity))
}

// fkConstraintRe matches the default Postgres FK constraint naming
// convention "<table>_<column>_fkey".
var fkConstraintRe = regexp.MustCompile(`^(.+)_([a-z0-9_]+?_id)_fkey$`)

// referencedEntityName infers the parent entity of a foreign key from
// the constraint name. "cars_client_id_fkey" -> "client". Falls back to
// the violating table's entity name when the constraint does not follow
// the convention.
func referencedEntityName(constraintName, tableName string) string {
	if m := fkConstraintRe.FindStringSubmatch(constraintName); len(m) == 3 {
		return strings.ToLower(humanizeText(strings.TrimSuffix(m[2], "_id")))
	}
	return entityNameFromTable(tableName)
}

// humanizeText converts snake_case identifiers into Title Case,
// e.g. "first_name" -> "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column name from a unique
// constraint name. It supports two conventions:
//
//  1. "<table>_<column>_key" (Postgres default), resolved against the
//     known table name so multi-word columns survive:
//     clients_phone_number_key -> "phone_number"
//  2. "unique_<table>_<column>"
func extractColumnForUniqueViolation(constraintName, tableName string) string {
	if constraintName == "" {
		return ""
	}

	if tableName != "" {
		prefix := tableName + "_"
		if strings.HasPrefix(constraintName, prefix) {
			rest := strings.TrimPrefix(constraintName, prefix)
			for _, suffix := range []string{"_key", "_ukey"} {
				if strings.HasSuffix(rest, suffix) {
					return strings.TrimSuffix(rest, suffix)
				}
			}
		}
		if strings.HasPrefix(constraintName, "unique_"+prefix) {
			return strings.TrimPrefix(constraintName, "unique_"+prefix)
		}
	}

	// Last resort: take the final underscore-delimited segment.
	re := regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)
	if m := re.FindStringSubmatch(constraintName); len(m) > 1 {
		return m[1]
	}

	return ""
}

// HandleError converts a low-level database error into an
// application-level error.
//
// Output:
//   - already *errs.HTTPError: returned unchanged
//   - pgconn.PgError: mapped to a specific errs.NewBadRequestError or
//     errs.NewInternalServerError
//   - ErrNoRows: mapped to errs.NewNotFoundError, naming the entity if
//     the error was tagged via sqlerr.NotFound
//   - anything else: errs.NewInternalServerError
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil)

		case UniqueViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors)

		case CheckViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		// Errors tagged via NotFound carry "table:<name>:" so the 404
		// can name the missing entity.
		errMsg := err.Error()
		tablePrefix := "table:"
		if strings.Contains(errMsg, tablePrefix) {
			table := strings.Split(strings.Split(errMsg, tablePrefix)[1], ":")[0]
			entityName := humanizeText(entityNameFromTable(table))
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", entityName), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
