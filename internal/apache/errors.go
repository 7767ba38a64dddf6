package apache

import "fmt"

// ModuleEnableError indicates the external module enable command failed.
type ModuleEnableError struct {
	Module string
	Err    error
}

func (e *ModuleEnableError) Error() string {
	return fmt.Sprintf("unable to enable apache2 module %s: %v", e.Module, e.Err)
}

func (e *ModuleEnableError) Unwrap() error { return e.Err }

// ModuleDisableError indicates the external module disable command failed
// or the module is not known to the toggle registry.
type ModuleDisableError struct {
	Module string
	Reason string
	Err    error
}

func (e *ModuleDisableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to disable apache2 module %s: %v", e.Module, e.Err)
	}
	return fmt.Sprintf("unable to disable apache2 module %s: %s", e.Module, e.Reason)
}

func (e *ModuleDisableError) Unwrap() error { return e.Err }

// SiteEnableError indicates the external site enable command failed.
type SiteEnableError struct {
	Site string
	Err  error
}

func (e *SiteEnableError) Error() string {
	return fmt.Sprintf("unable to enable apache2 site %s: %v", e.Site, e.Err)
}

func (e *SiteEnableError) Unwrap() error { return e.Err }

// SiteDisableError indicates the external site disable command failed.
type SiteDisableError struct {
	Site string
	Err  error
}

func (e *SiteDisableError) Error() string {
	return fmt.Sprintf("unable to disable apache2 site %s: %v", e.Site, e.Err)
}

func (e *SiteDisableError) Unwrap() error { return e.Err }
