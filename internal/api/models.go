package api

import (
	"time"

	"github.com/lpfarias/essay-api/internal/domain"
)

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the request body for refreshing an access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is the response for successful authentication.
type AuthResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// CreateEssayRequest is the request body for submitting an essay. Exactly one
// of course, token or invalid_essay_id selects the submission mode.
type CreateEssayRequest struct {
	File           string `json:"file" validate:"required,url"`
	Course         string `json:"course,omitempty" validate:"omitempty,oneof=esa espcex blank"`
	Token          string `json:"token,omitempty"`
	InvalidEssayID string `json:"invalid_essay_id,omitempty" validate:"omitempty,uuid"`
}

// UpdateEssayRequest is the request body for partially updating an essay.
type UpdateEssayRequest struct {
	CorrectorID    *string `json:"corrector_id,omitempty" validate:"omitempty,uuid"`
	ClearCorrector bool    `json:"clear_corrector,omitempty"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=pending correcting revised invalid"`
}

// CanResendResponse reports resubmission eligibility for an essay.
type CanResendResponse struct {
	CanResend bool `json:"can_resend"`
}

// CreateCorrectionRequest is the request body for delivering a correction.
type CreateCorrectionRequest struct {
	IsReadable         string  `json:"is_readable"`
	HasMarginSpacing   string  `json:"has_margin_spacing"`
	ObeyedMargins      string  `json:"obeyed_margins"`
	Erasures           string  `json:"erasures"`
	Orthography        string  `json:"orthography"`
	Accentuation       string  `json:"accentuation"`
	Agreement          string  `json:"agreement"`
	Repeated           string  `json:"repeated"`
	VeryShortSentences string  `json:"very_short_sentences"`
	UnderstoodTheme    string  `json:"understood_theme"`
	FollowedGenre      string  `json:"followed_genre"`
	Cohesion           string  `json:"cohesion"`
	Organized          string  `json:"organized"`
	Conclusion         string  `json:"conclusion"`
	Comment            string  `json:"comment,omitempty"`
	Points             float64 `json:"points" validate:"gte=0,lte=10"`
}

// Criteria converts the request rubric fields to the domain type.
func (r *CreateCorrectionRequest) Criteria() domain.CorrectionCriteria {
	return domain.CorrectionCriteria{
		IsReadable:         r.IsReadable,
		HasMarginSpacing:   r.HasMarginSpacing,
		ObeyedMargins:      r.ObeyedMargins,
		Erasures:           r.Erasures,
		Orthography:        r.Orthography,
		Accentuation:       r.Accentuation,
		Agreement:          r.Agreement,
		Repeated:           r.Repeated,
		VeryShortSentences: r.VeryShortSentences,
		UnderstoodTheme:    r.UnderstoodTheme,
		FollowedGenre:      r.FollowedGenre,
		Cohesion:           r.Cohesion,
		Organized:          r.Organized,
		Conclusion:         r.Conclusion,
	}
}

// CreateInvalidationRequest is the request body for invalidating an essay.
// A comment is required when the reason is "other".
type CreateInvalidationRequest struct {
	Reason  string `json:"reason" validate:"required,oneof=invalid unreadable tangent other"`
	Comment string `json:"comment,omitempty" validate:"required_if=Reason other"`
}

// CreateThemeRequest is the request body for publishing a theme.
type CreateThemeRequest struct {
	Title     string    `json:"title" validate:"required"`
	HelpText  string    `json:"help_text,omitempty"`
	File      string    `json:"file,omitempty"`
	Courses   []string  `json:"courses" validate:"required,min=1,dive,oneof=esa espcex blank"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

// UpdateThemeRequest is the request body for partially updating a theme.
type UpdateThemeRequest struct {
	Title       *string    `json:"title,omitempty"`
	HelpText    *string    `json:"help_text,omitempty"`
	File        *string    `json:"file,omitempty"`
	Courses     []string   `json:"courses,omitempty" validate:"omitempty,min=1,dive,oneof=esa espcex blank"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Deactivated *bool      `json:"deactivated,omitempty"`
}

// CreateSubscriptionRequest is the request body for a manual subscription
// grant.
type CreateSubscriptionRequest struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// UpdateSubscriptionRequest is the request body for partially updating a
// subscription.
type UpdateSubscriptionRequest struct {
	Expiration *time.Time `json:"expiration,omitempty"`
	Active     *bool      `json:"active,omitempty"`
}

// PaymentWebhookRequest is the notification payload from the payment
// provider.
type PaymentWebhookRequest struct {
	Event       string `json:"event" validate:"required,oneof=purchase_approved purchase_canceled purchase_refunded"`
	Code        string `json:"code" validate:"required"`
	ProductCode string `json:"product_code,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Name        string `json:"name,omitempty"`
}

// CreateProductRequest is the request body for registering a product.
type CreateProductRequest struct {
	Name           string `json:"name" validate:"required"`
	Code           string `json:"code" validate:"required"`
	Course         string `json:"course" validate:"required,oneof=esa espcex blank"`
	ExpirationDays int    `json:"expiration_days" validate:"required,gt=0"`
}

// UpdateProductRequest is the request body for partially updating a product.
type UpdateProductRequest struct {
	Name           *string `json:"name,omitempty"`
	Course         *string `json:"course,omitempty" validate:"omitempty,oneof=esa espcex blank"`
	ExpirationDays *int    `json:"expiration_days,omitempty" validate:"omitempty,gt=0"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// UpdateSettingsRequest is the request body for updating platform settings.
type UpdateSettingsRequest struct {
	ReviewExpiration       *int  `json:"review_expiration,omitempty" validate:"omitempty,gt=0"`
	ReviewRecuseExpiration *int  `json:"review_recuse_expiration,omitempty" validate:"omitempty,gt=0"`
	SellCorrections        *bool `json:"sell_corrections,omitempty"`
}

// CreateUserRequest is the request body for registering a user. An empty
// password makes the server generate one and email it.
type CreateUserRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password,omitempty" validate:"omitempty,min=8"`
	Permission string `json:"permission" validate:"required,oneof=admin corrector student"`
	Phone      string `json:"phone,omitempty"`
}

// UpdateUserRequest is the request body for partially updating a user.
type UpdateUserRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Password   *string `json:"password,omitempty" validate:"omitempty,min=8"`
	Phone      *string `json:"phone,omitempty"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Permission *string `json:"permission,omitempty" validate:"omitempty,oneof=admin corrector student"`
}

// CreateTokenRequest is the request body for issuing a single-essay token.
type CreateTokenRequest struct {
	StudentID  string    `json:"student_id" validate:"required,uuid"`
	ThemeID    string    `json:"theme_id" validate:"required,uuid"`
	Expiration time.Time `json:"expiration" validate:"required"`
}

// ListResponse is the envelope for paginated listings.
type ListResponse struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
