package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/entity"
	"github.com/budgetwise/statements/internal/utils"
)

// BuildTransactionSchema returns the JSON-Schema (draft 2020-12 subset) one
// array element must satisfy. Used locally to validate each element after the
// repair cascade.
func BuildTransactionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"date":        map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"description": map[string]any{"type": "string", "minLength": 1},
			"amount":      map[string]any{"type": "number"},
			"type":        map[string]any{"type": "string"},
			"category":    map[string]any{"type": "string"},
			"merchant":    map[string]any{"type": "string"},
		},
		"required": []string{"date", "description", "amount"},
	}
}

// CompileSchema compiles a schema map once so element validation doesn't pay
// the compile cost per element.
func CompileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateElements filters and normalizes decoded array elements into
// transaction candidates. Invalid elements are dropped individually, never the
// whole batch. Type is always recomputed from the amount sign plus the
// provider hint; the hint alone is never trusted for sign-bearing decisions.
func ValidateElements(elements []json.RawMessage, statementID uuid.UUID, logger *slog.Logger) []entity.Transaction {
	if logger == nil {
		logger = slog.Default()
	}

	schema, err := CompileSchema(BuildTransactionSchema())
	if err != nil {
		logger.Error("llm.validate.schema_compile_failed", "error", err)
		return nil
	}

	out := make([]entity.Transaction, 0, len(elements))
	for i, el := range elements {
		var v any
		if err := json.Unmarshal(el, &v); err != nil {
			logger.Warn("llm.validate.element_undecodable", "index", i, "error", err)
			continue
		}
		if err := schema.Validate(v); err != nil {
			logger.Warn("llm.validate.element_rejected", "index", i, "error", err)
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(el))
		dec.UseNumber()
		var fields TransactionFields
		if err := dec.Decode(&fields); err != nil {
			logger.Warn("llm.validate.element_unmarshal_failed", "index", i, "error", err)
			continue
		}

		amount, err := decimal.NewFromString(fields.Amount.String())
		if err != nil {
			logger.Warn("llm.validate.amount_invalid", "index", i, "amount", fields.Amount.String())
			continue
		}
		date, err := utils.ParseYMD(fields.Date)
		if err != nil {
			logger.Warn("llm.validate.date_invalid", "index", i, "date", fields.Date)
			continue
		}
		description := strings.TrimSpace(fields.Description)
		if description == "" {
			logger.Warn("llm.validate.description_empty", "index", i)
			continue
		}

		txType := recomputeType(amount, fields.Type)
		category, known := constants.Canonicalize(fields.Category)
		if !known && fields.Category != "" {
			logger.Warn("llm.validate.category_unknown", "index", i, "label", fields.Category)
		}

		out = append(out, entity.Transaction{
			Date:         date,
			Description:  description,
			Amount:       amount,
			Type:         txType,
			Category:     category,
			Merchant:     strings.TrimSpace(fields.Merchant),
			SourceFile:   statementID,
			Confidence:   constants.ProviderConfidence,
			UserModified: false,
		})
	}
	return out
}

// recomputeType derives the transaction type deterministically from the
// amount sign; the provider hint only decides between transfer and the
// sign-implied type.
func recomputeType(amount decimal.Decimal, hint string) constants.TransactionType {
	isTransfer := strings.EqualFold(strings.TrimSpace(hint), string(constants.TypeTransfer))
	if amount.IsPositive() {
		if isTransfer {
			return constants.TypeTransfer
		}
		return constants.TypeIncome
	}
	if isTransfer {
		return constants.TypeTransfer
	}
	return constants.TypeExpense
}
