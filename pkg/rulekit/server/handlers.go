package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/randalmurphal/rulekit/pkg/rulekit"
	rkerrors "github.com/randalmurphal/rulekit/pkg/rulekit/errors"
	"github.com/randalmurphal/rulekit/pkg/rulekit/rule"
)

// CreateRuleRequest is the body of POST /create_rule.
type CreateRuleRequest struct {
	RuleString string `json:"rule_string" form:"rule_string" binding:"required"`
}

// CombineRulesRequest is the body of POST /combine_rules.
type CombineRulesRequest struct {
	Rules []string `json:"rules" binding:"required"`
}

// EvaluateRuleRequest is the body of POST /evaluate_rule.
type EvaluateRuleRequest struct {
	CombinedRule *rule.PlainTree `json:"combined_rule" binding:"required"`
	Data         map[string]any  `json:"data" binding:"required"`
}

// TreeResponse carries a serialized rule tree.
type TreeResponse struct {
	AST *rule.PlainTree `json:"ast"`
}

// EvaluateResponse carries an evaluation result.
type EvaluateResponse struct {
	Result rule.Value `json:"result"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category"`
}

type handlers struct {
	engine *rulekit.Engine
}

// createRule handles POST /create_rule.
//
// Response:
//
//	200 OK: TreeResponse
//	400 Bad Request: missing or malformed rule
func (h *handlers) createRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	tree, err := h.engine.Create(c.Request.Context(), req.RuleString)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TreeResponse{AST: tree})
}

// combineRules handles POST /combine_rules.
//
// Response:
//
//	200 OK: TreeResponse
//	400 Bad Request: no rules, or a rule failed to parse
//	413 Request Entity Too Large: more rules than the engine allows
func (h *handlers) combineRules(c *gin.Context) {
	var req CombineRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	tree, err := h.engine.Combine(c.Request.Context(), req.Rules)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TreeResponse{AST: tree})
}

// evaluateRule handles POST /evaluate_rule.
//
// Response:
//
//	200 OK: EvaluateResponse
//	400 Bad Request: malformed tree or empty data
//	413 Request Entity Too Large: tree deeper than the engine allows
//	422 Unprocessable Entity: values could not be compared
func (h *handlers) evaluateRule(c *gin.Context) {
	var req EvaluateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	result, err := h.engine.Evaluate(c.Request.Context(), req.CombinedRule, req.Data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, EvaluateResponse{Result: result})
}

// health handles GET /health.
func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindError converts a binding failure into an invalid-input error,
// naming each field that failed validation.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(rkerrors.ValidationErrors, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, &rkerrors.ValidationError{
				Field:   fe.Field(),
				Message: "failed on " + fe.Tag(),
			})
		}
		return fields
	}
	return rkerrors.InvalidInput(err, "decode request")
}

// writeError responds with the status and category of err.
func writeError(c *gin.Context, err error) {
	category := rkerrors.Categorize(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(category.StatusCode(), ErrorResponse{
		Error:    err.Error(),
		Category: category.String(),
	})
}
