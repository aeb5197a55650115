package config

import (
	"github.com/spf13/viper"

	"github.com/knei-knurow/attdet"
)

// Default values for every key the loader knows about. Registering them with
// viper also makes the keys visible to environment overrides.
var defaults = map[string]interface{}{
	"log.level":  "info",
	"log.format": "console",

	"solver.newton_iterations": attdet.MaxNewtonIterations,
	"solver.newton_tolerance":  attdet.NewtonTolerance,
	"solver.det_y_tolerance":   attdet.DetYTolerance,
	"solver.selection":         attdet.SelectDefault.String(),
	"solver.parallel":          false,

	// Gravity along +z and magnetic north along +x at the identity attitude
	"estimator.acc_reference": []float64{0, 0, 1},
	"estimator.mag_reference": []float64{1, 0, 0},
	"estimator.acc_weight":    0.6,
	"estimator.mag_weight":    0.4,

	"serial.port":      "/dev/ttyUSB0",
	"serial.baud_rate": 115200,
	"serial.data_bits": 8,
	"serial.stop_bits": 1,
	"serial.parity":    "N",
}

// setDefaults registers the defaults with v.
func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
