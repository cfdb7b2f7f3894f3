// Package wizard provides an interactive configuration wizard for cloudprobe.
//
// The wizard uses charmbracelet/huh forms to collect the region, the AWS
// profile, resource settings and run behavior. RunWizard returns a
// WizardResult, BuildConfig converts it to a config.Config and WriteConfig
// writes the YAML file read by `cloudprobe run -c`.
package wizard
