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

package internal

import (
	"strconv"
	"sync"
	"time"

	"github.com/antst/ctfan/internal/config"
	"github.com/antst/ctfan/internal/logger"
	"github.com/antst/ctfan/internal/safe_mqtt"
)

const (
	wetBulbPrefix = "wet-bulb-"
	rhPrefix      = "relative-humidity-"
)

// Ambient is the averaged live reading. A zero timestamp means no sensor of that group
// has reported yet.
type Ambient struct {
	WetBulb                   float64
	WetBulbTimestamp          time.Time
	RelativeHumidity          float64
	RelativeHumidityTimestamp time.Time
}

// AmbientController averages the wet-bulb and relative humidity sensors and reports
// every change of either average.
type AmbientController struct {
	mu             sync.RWMutex
	cfg            *config.AmbientConfig
	wetBulbSensors []*SensorController
	rhSensors      []*SensorController
	controlChan    chan<- Ambient
	childChan      chan bool
	done           chan struct{}
	closeOnce      sync.Once
	wetBulbFunc    func([]*SensorController) (float64, time.Time)
	rhFunc         func([]*SensorController) (float64, time.Time)
	current        Ambient
}

func linkAverageFun(avgType *string) func([]*SensorController) (float64, time.Time) {
	if *avgType != "" && *avgType != config.DefaultAverageType {
		logger.L().Errorf("Unknown average function type: %v", *avgType)
		logger.L().Error("Reverting to the `mean`")
		*avgType = config.DefaultAverageType
	}
	return sensorsMean
}

func newSensorGroup(
	prefix string, cfgs []*config.SensorConfig, controlTopic string, client safe_mqtt.MqttClient, store RunStore,
	childChan chan<- bool,
) []*SensorController {
	sensors := make([]*SensorController, len(cfgs))
	for i, sensor := range cfgs {
		sName := prefix
		if sensor.Name == "" {
			sName += strconv.Itoa(i + 1)
		} else {
			sName += sensor.Name
		}
		sensors[i] = NewSensorController(sName, sensor, controlTopic, client, store, childChan)
	}
	return sensors
}

func NewAmbientController(
	_cfg *config.AmbientConfig, _controlTopic string, _mqtt safe_mqtt.MqttClient, _store RunStore,
	_controlChan chan<- Ambient,
) *AmbientController {
	a := &AmbientController{
		cfg:         _cfg,
		controlChan: _controlChan,
		childChan:   make(chan bool, childChanBuffer),
		done:        make(chan struct{}),
		current: Ambient{
			WetBulbTimestamp:          zeroTS,
			RelativeHumidityTimestamp: zeroTS,
		},
	}
	a.wetBulbFunc = linkAverageFun(&a.cfg.WetBulbAverageType)
	a.rhFunc = linkAverageFun(&a.cfg.RelativeHumidityAverageType)

	a.wetBulbSensors = newSensorGroup(wetBulbPrefix, a.cfg.WetBulbSensors, _controlTopic, _mqtt, _store, a.childChan)
	a.rhSensors = newSensorGroup(rhPrefix, a.cfg.RelativeHumiditySensors, _controlTopic, _mqtt, _store, a.childChan)

	go a.childProcessor()
	a.updateAverages()
	return a
}

func (a *AmbientController) childProcessor() {
	for {
		select {
		case <-a.done:
			return
		case <-a.childChan:
			a.updateAverages()
		}
	}
}

func (a *AmbientController) updateAverages() {
	wb, wbTS := a.wetBulbFunc(a.wetBulbSensors)
	rh, rhTS := a.rhFunc(a.rhSensors)
	if !wbTS.After(zeroTS) && !rhTS.After(zeroTS) {
		return
	}

	a.mu.Lock()
	changed := wb != a.current.WetBulb || rh != a.current.RelativeHumidity ||
		wbTS.After(zeroTS) != a.current.WetBulbTimestamp.After(zeroTS) ||
		rhTS.After(zeroTS) != a.current.RelativeHumidityTimestamp.After(zeroTS)
	a.current = Ambient{
		WetBulb:                   wb,
		WetBulbTimestamp:          wbTS,
		RelativeHumidity:          rh,
		RelativeHumidityTimestamp: rhTS,
	}
	current := a.current
	a.mu.Unlock()

	if changed {
		select {
		case a.controlChan <- current:
		case <-a.done:
		}
	}
}

func (a *AmbientController) Current() Ambient {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Close unsubscribes the sensors and stops averaging. Late sensor messages are dropped.
func (a *AmbientController) Close() {
	a.closeOnce.Do(func() {
		for _, sensor := range a.wetBulbSensors {
			sensor.Close()
		}
		for _, sensor := range a.rhSensors {
			sensor.Close()
		}
		close(a.done)
	})
}
