package dto

type StateOutput struct {
	Permission          string
	EffectivePermission string
	IsBlocked           bool
	IsSessionActive     bool
	IsManual            bool
}
