package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Identity errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrUserInactive        = errors.New("user account is inactive")
	ErrUserNotVerified     = errors.New("user account is not verified")
	ErrAccountLocked       = errors.New("account is temporarily locked")
	ErrPasswordExpired     = errors.New("password has expired")
	ErrSelfDeactivation    = errors.New("cannot deactivate own account")
	ErrAdminUserProtected  = errors.New("admin users cannot be deleted")
)

// Role errors
var (
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleAlreadyExists  = errors.New("role name already exists")
	ErrSystemRoleReadOnly = errors.New("system roles cannot be modified")
	ErrRoleInUse          = errors.New("role is assigned to users")
	ErrInvalidPermissions = errors.New("invalid permissions")
)

// Family errors
var (
	ErrFamilyNotFound = errors.New("family not found")
)
