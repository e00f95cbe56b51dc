/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of CTFAN project.
 *
 * CTFAN is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package config

// AmbientConfig is the live ambient feed of the sizing service. When Case is set, the
// service re-solves that design case with the averaged wet-bulb and relative humidity
// readings.
type AmbientConfig struct {
	Case                        string          `yaml:"case,omitempty"`
	WetBulbSensors              []*SensorConfig `yaml:"wet_bulb_sensors,omitempty"`
	WetBulbAverageType          string          `yaml:"wet_bulb_average_type,omitempty"`
	RelativeHumiditySensors     []*SensorConfig `yaml:"relative_humidity_sensors,omitempty"`
	RelativeHumidityAverageType string          `yaml:"relative_humidity_average_type,omitempty"`
}

func NewAmbientConfig() *AmbientConfig {
	cfg := &AmbientConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *AmbientConfig) FillDefaults() {
	fillSensorDefaults(c.WetBulbSensors, &c.WetBulbAverageType)
	fillSensorDefaults(c.RelativeHumiditySensors, &c.RelativeHumidityAverageType)
}

// Enabled reports whether the feed has a case to solve and sensors to drive it.
func (c *AmbientConfig) Enabled() bool {
	return c.Case != "" && (len(c.WetBulbSensors) > 0 || len(c.RelativeHumiditySensors) > 0)
}

func fillSensorDefaults(sensors []*SensorConfig, avgType *string) {
	if len(sensors) > 0 {
		for _, s := range sensors {
			s.FillDefaults()
		}
		if *avgType == "" {
			*avgType = DefaultAverageType
		}
	}
}
